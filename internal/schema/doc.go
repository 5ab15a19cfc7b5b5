// Package schema reads record declarations written by field-metadata
// collectors.
//
// Declarations come as TOML, YAML or MessagePack documents sharing one
// layout: a list of records, each with a name, an ordering flag, the
// methods the type defines itself, and its fields in declaration order.
// Every record is validated through record.Builder; a malformed record is
// reported on its own and does not prevent its neighbours from loading.
package schema
