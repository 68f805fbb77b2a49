// Package sop implements sum-of-products trees: the structural encoding of
// an algebraic data type as alternating Sum (tagged choice) and Product
// (field) nodes.
//
// Recursive types are represented without cycles. A child is either an
// owned subtree or a back-reference k, meaning "the same node as the one k
// levels up from the node holding this child" (0 is the holder itself).
// Every traversal threads a stack.Stack of ancestors and resolves
// back-references against it; nothing is ever mutated, so the same subtree
// can be shared by any number of parents.
//
// When a traversal has to materialise a back-reference (for example to
// insert a value below it), the referenced subtree is copied into place and
// any references in the copy that point above it are re-indexed for the
// new depth. See unrollChild.
//
// All operations return new trees. Unchanged subtrees are shared with the
// input.
package sop
