package crm

import "fmt"

// ObjectType is the CRM object collection name used in API paths
type ObjectType string

const (
	// ObjectTypeContacts is the contacts collection
	ObjectTypeContacts ObjectType = "contacts"
	// ObjectTypeCompanies is the companies collection
	ObjectTypeCompanies ObjectType = "companies"
	// ObjectTypeDeals is the deals collection
	ObjectTypeDeals ObjectType = "deals"
)

// ObjectTypes lists the collections in processing order
var ObjectTypes = []ObjectType{ObjectTypeContacts, ObjectTypeCompanies, ObjectTypeDeals}

// Valid reports whether t is a known collection
func (t ObjectType) Valid() bool {
	switch t {
	case ObjectTypeContacts, ObjectTypeCompanies, ObjectTypeDeals:
		return true
	default:
		return false
	}
}

// ParseObjectType converts a collection name into an ObjectType
func ParseObjectType(s string) (ObjectType, error) {
	t := ObjectType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown object type %q", s)
	}
	return t, nil
}

// Properties holds the requested property values of an object.
// A missing key and a nil value both mean the property is unset.
type Properties map[string]*string

// Get returns the property value or "" when it is unset
func (p Properties) Get(key string) string {
	if v := p[key]; v != nil {
		return *v
	}
	return ""
}

// IsEmpty reports whether the property is missing, null or the empty string
func (p Properties) IsEmpty(key string) bool {
	return p.Get(key) == ""
}

// Object is a single CRM record
type Object struct {
	ID         string     `json:"id"`
	Properties Properties `json:"properties"`
}

// Page is one response of the paged listing endpoint
type Page struct {
	Results []Object
	// After is the cursor of the next page, empty on the last page
	After string
}
