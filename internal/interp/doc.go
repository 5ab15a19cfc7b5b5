// Package interp is a reference downstream for synthesized methods.
//
// It executes ir trees under the semantics the synthesized bodies target:
// None, bool, int, float and str scalars; tensors whose comparisons are
// elementwise and whose truthiness is only defined for one-element tensors;
// and record instances whose operators dispatch to dunder methods.
//
// Compile is the adapter boundary: it turns a derive.Fragment into a method
// of a Class, reporting unresolvable references as internal synthesis bugs.
// Faults raised by executed bodies surface as *RuntimeError.
package interp
