package config

// Op identifies the CRUD operation an action performs.
type Op string

// Operation kinds. The value is what appears in the definition file.
const (
	OpCreate  Op = "Create"
	OpGetAll  Op = "GetAll"
	OpGetOne  Op = "GetOne"
	OpGetMany Op = "GetMany"
	OpMerge   Op = "Merge"
	OpUpdate  Op = "Update"
	OpDelete  Op = "Delete"
)

// Valid reports whether the operation kind is one of the known values.
func (o Op) Valid() bool {
	switch o {
	case OpCreate, OpGetAll, OpGetOne, OpGetMany, OpMerge, OpUpdate, OpDelete:
		return true
	}
	return false
}

// Writes reports whether the operation mutates the document store.
func (o Op) Writes() bool {
	switch o {
	case OpCreate, OpMerge, OpUpdate, OpDelete:
		return true
	}
	return false
}

// Action is one route definition: the operation kind, the URL template it
// answers on, the HTTP method, and the query expression locating the
// affected nodes in the dataset. Actions are immutable after load and
// their position in the list decides match precedence.
type Action struct {
	Op     Op     `json:"action" yaml:"action" validate:"required,oneof=Create GetAll GetOne GetMany Merge Update Delete"`
	URL    string `json:"url" yaml:"url"`
	Method string `json:"method" yaml:"method" validate:"required"`
	Query  string `json:"query,omitempty" yaml:"query,omitempty"`
}

// APIConfig is the parsed API definition file.
type APIConfig struct {
	APIFile  string   `json:"apiFile,omitempty" yaml:"apiFile,omitempty"`
	BaseURL  string   `json:"baseUrl" yaml:"baseUrl" validate:"required"`
	DataFile string   `json:"dataFile" yaml:"dataFile" validate:"required"`
	Actions  []Action `json:"actions" yaml:"actions" validate:"dive"`
}
