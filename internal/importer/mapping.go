package importer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/matheus3301/linktrack/internal/store"
)

// Header candidates per field, tried in order. Exact matches win over
// case-insensitive substring matches.
var fieldCandidates = map[string][]string{
	"url":        {"URL", "LinkedIn URL", "LinkedIn", "Url", "Profile URL", "Profile Url", "Enlace", "Link", "url"},
	"first_name": {"First Name", "FirstName", "Nombre", "GivenName", "First"},
	"last_name":  {"Last Name", "LastName", "Apellido", "FamilyName", "Surname", "Last"},
	"email":      {"Email Address", "Email", "E-mail", "Correo", "Mail"},
	"company":    {"Company", "Empresa", "Position Company", "Organization"},
	"job_title":  {"Position", "Job Title", "Title", "Cargo", "Role", "Puesto"},
	"location":   {"Location", "Ubicación", "City", "Ciudad"},
}

var slugRegexp = regexp.MustCompile(`/in/([^/?#]+)`)

// row pairs a header with one record.
type row struct {
	header []string
	values []string
}

func (r row) get(i int) string {
	if i < 0 || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

// find returns the first non-empty value among the candidate columns for field.
func (r row) find(field string) string {
	for _, candidate := range fieldCandidates[field] {
		for i, h := range r.header {
			if h == candidate {
				if v := r.get(i); v != "" {
					return v
				}
			}
		}
		lc := strings.ToLower(candidate)
		for i, h := range r.header {
			if strings.Contains(strings.ToLower(h), lc) {
				if v := r.get(i); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

// MapRow converts one record into a contact. It returns nil when no
// LinkedIn URL can be found.
func MapRow(header, values []string) *store.Contact {
	r := row{header: header, values: values}

	url := r.find("url")
	if url == "" {
		for i := range r.values {
			if v := r.get(i); strings.Contains(strings.ToLower(v), "linkedin.com/in/") {
				url = v
				break
			}
		}
	}
	if url == "" {
		return nil
	}

	c := &store.Contact{
		LinkedInURL:           url,
		Name:                  contactName(r, url),
		Company:               r.find("company"),
		JobTitle:              r.find("job_title"),
		Location:              r.find("location"),
		Status:                store.StatusConnected,
		ConnectionMessageSent: true,
	}

	var notes []string
	if email := r.find("email"); email != "" {
		notes = append(notes, "Email: "+email)
	}
	c.Notes = strings.Join(notes, " | ")
	return c
}

func contactName(r row, url string) string {
	first, last := r.find("first_name"), r.find("last_name")
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	}

	for i, h := range r.header {
		v := r.get(i)
		if strings.Contains(strings.ToLower(h), "name") && len(strings.Fields(v)) >= 2 {
			return v
		}
	}

	if m := slugRegexp.FindStringSubmatch(url); m != nil {
		return titleCase(strings.ReplaceAll(m[1], "-", " "))
	}
	return "Unnamed contact"
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
