// Package merging implements the structural merge engine behind workflow
// generation.
//
// It reconciles the template's desired structure with a user's hand-edited
// workflow document:
// 1. Build: parse the existing document (or normalize a pre-parsed structure,
// or fall back to a base template) into a single yaml node tree.
// 2. Apply: execute an ordered plan of (path, operation, value, required)
// instructions against the tree.
// 3. Finalize: serialize the tree back to text.
//
// The engine preserves comments and formatting on nodes an instruction does
// not touch, and is convergent: applying the same plan to its own output is a
// no-op.
package merging
