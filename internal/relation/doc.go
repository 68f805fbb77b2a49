// Package relation implements relations between the leaves of two
// sum-of-products trees, a source and a target.
//
// A Relation is one of
//
//   - Basic: pairs every full grouping of its source subtree with every
//     full grouping of its target subtree.
//   - Copy: the single value found under all of its source branches is
//     propagated to every branch of its target.
//   - Parallel: independently satisfiable children, each shifted into a
//     region of the parent's trees by a Between. A child may be a
//     back-reference to an enclosing Parallel, which expresses relations
//     over recursive types ("map over every list element") without cycles.
//   - Series: sequential composition through intermediate types. It can be
//     represented but no operation supports it yet; all of them fail with
//     NOT_IMPLEMENTED.
//
// Nodes of the source and target trees are addressed with Path, which
// threads through nested Parallel children by index.
package relation
