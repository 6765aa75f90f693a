// Package validate defines the rule-set contract and the engine that runs
// registered rule-sets over a content repository, merges their findings,
// and republishes the presentation state. Concrete rule-sets live in the
// structure, metafields, and mediarefs subpackages.
package validate
