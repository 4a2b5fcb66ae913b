// Package schema builds navigation trees from declarative YAML definitions.
//
// A Document declares routes (kind, path, scope and a parameter schema) and a
// root node. Build resolves every screen through the declared routes, checks
// screen data against the route's parameter schema and assembles a navtree,
// reporting every problem at once:
//
//	doc, err := schema.Load("nav.yaml")
//	if err != nil {
//	    return err
//	}
//	def, err := schema.Build(doc)
//	for _, e := range schema.Errors(err) {
//	    fmt.Println(e)
//	}
//
// Parameter schemas map field names to types written as strings ("string",
// "int", "float", "bool", or slices such as "[string]"). Applications can add
// validators with Custom when building a Schema in code.
package schema
