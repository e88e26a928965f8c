// Package address normalizes provider address objects into the shape the
// store platform accepts. The provider's widgets return free-text names,
// literal "undefined" placeholders, and country-dependent line layouts; the
// store rejects empty last names and unknown state values.
package address

import (
	"strings"
)

// Raw is an address exactly as the provider returned it.
type Raw struct {
	Name          string
	AddressLine1  string
	AddressLine2  string
	AddressLine3  string
	City          string
	StateOrRegion string
	PostalCode    string
	CountryCode   string
	Phone         string
}

// Normalized is the store-facing address record.
type Normalized struct {
	FirstName string
	LastName  string
	Company   string
	Address1  string
	Address2  string
	City      string
	State     string
	Postcode  string
	Country   string
	Phone     string
}

// Format converts a provider address into the normalized store record. It is
// a pure function: equal input always yields equal output.
func Format(raw Raw) Normalized {
	a := Normalized{
		FirstName: stripUndefined(firstNamePart(raw.Name)),
		LastName:  stripUndefined(lastNamePart(raw.Name)),
		City:      stripUndefined(raw.City),
		Postcode:  stripUndefined(raw.PostalCode),
		Country:   strings.ToUpper(stripUndefined(raw.CountryCode)),
		Phone:     stripUndefined(raw.Phone),
	}

	line1 := stripUndefined(raw.AddressLine1)
	line2 := stripUndefined(raw.AddressLine2)
	line3 := stripUndefined(raw.AddressLine3)

	switch a.Country {
	case "DE", "AT":
		// Three lines means line1+line2 are the company and line3 is the
		// street; fewer lines shift accordingly.
		switch {
		case line1 != "" && line2 != "" && line3 != "":
			a.Company = line1 + " " + line2
			a.Address1 = line3
		case line1 != "" && line2 != "":
			a.Company = line1
			a.Address1 = line2
		default:
			a.Address1 = line1
		}
	case "JP":
		// JP keeps lines separate; the city field may be absent entirely
		// and must stay an empty string rather than inherit a line.
		a.Address1 = line1
		a.Address2 = line2
		if raw.City == "" {
			a.City = ""
		}
	default:
		a.Address1 = line1
		a.Address2 = line2
		if line3 != "" {
			if a.Address2 != "" {
				a.Address2 += " " + line3
			} else {
				a.Address2 = line3
			}
		}
	}

	a.State = normalizeState(a.Country, stripUndefined(raw.StateOrRegion))
	return a
}

// stripUndefined drops the literal placeholder the provider's JS widgets
// emit for absent fields.
func stripUndefined(v string) string {
	if v == "undefined" {
		return ""
	}
	return v
}

func firstNamePart(name string) string {
	name = strings.TrimSpace(name)
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return name
	}
	return name[:idx]
}

// lastNamePart returns the final token of a free-text name. A single-token
// name gets "." as last name because the receiving system rejects empty
// last names.
func lastNamePart(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return "."
	}
	return name[idx+1:]
}

// normalizeState matches a free-form state value against the known state
// table for the country. Codes and names are interchangeable and matched
// case-insensitively; a value with no match is dropped, never passed
// through verbatim.
func normalizeState(country, state string) string {
	if state == "" {
		return ""
	}
	states, ok := countryStates[country]
	if !ok {
		return ""
	}
	for code, name := range states {
		if strings.EqualFold(state, code) || strings.EqualFold(state, name) {
			return code
		}
	}
	return ""
}
