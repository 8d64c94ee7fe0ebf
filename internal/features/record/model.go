package record

import "strings"

// EntityType tags the closed set of CRM entities the sync pipeline knows.
// Custom entity names still flow through as opaque strings; they just take
// every unknown-type fallback path.
type EntityType string

const (
	EntityLead        EntityType = "Lead"
	EntityContact     EntityType = "Contact"
	EntityAccount     EntityType = "Account"
	EntityOpportunity EntityType = "Opportunity"
)

// standardFields lists the queryable standard fields per known entity type.
// Anything else must look like a custom field or a relationship path to be
// included in a historical query.
var standardFields = map[EntityType]map[string]bool{
	EntityLead: {
		"Id": true, "FirstName": true, "LastName": true, "Email": true,
		"Company": true, "Phone": true, "Title": true, "Status": true,
		"LeadSource": true, "Industry": true, "City": true, "State": true,
		"Country": true, "CreatedDate": true, "LastModifiedDate": true,
	},
	EntityContact: {
		"Id": true, "FirstName": true, "LastName": true, "Email": true,
		"Phone": true, "MobilePhone": true, "Title": true, "Department": true,
		"AccountId": true, "MailingCity": true, "MailingState": true,
		"MailingCountry": true, "CreatedDate": true, "LastModifiedDate": true,
	},
	EntityAccount: {
		"Id": true, "Name": true, "Type": true, "Industry": true,
		"Phone": true, "Website": true, "AnnualRevenue": true,
		"NumberOfEmployees": true, "BillingCity": true, "BillingState": true,
		"BillingCountry": true, "CreatedDate": true, "LastModifiedDate": true,
	},
	EntityOpportunity: {
		"Id": true, "Name": true, "StageName": true, "Amount": true,
		"CloseDate": true, "Probability": true, "Type": true,
		"LeadSource": true, "AccountId": true, "IsClosed": true,
		"IsWon": true, "CreatedDate": true, "LastModifiedDate": true,
	},
}

// QueryableField reports whether a mapping's source field is syntactically
// valid to include in a historical query for the given entity type: a custom
// field suffix, a dotted relationship path, or a known standard field.
func QueryableField(entity EntityType, field string) bool {
	if field == "" {
		return false
	}
	if strings.HasSuffix(field, "__c") {
		return true
	}
	if strings.Contains(field, ".") {
		return true
	}
	if fields, ok := standardFields[entity]; ok {
		return fields[field]
	}
	return false
}

// SourceRecord is a duck-typed view over one CRM record's field values.
type SourceRecord map[string]any

// Field resolves a field value, following dotted relationship paths through
// nested maps. Missing segments yield nil.
func (r SourceRecord) Field(name string) any {
	if !strings.Contains(name, ".") {
		return r[name]
	}

	var current any = map[string]any(r)
	for _, part := range strings.Split(name, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[part]
	}
	return current
}

// ID returns the record's identifier, empty when absent.
func (r SourceRecord) ID() string {
	if id, ok := r["Id"].(string); ok {
		return id
	}
	return ""
}
