package mailparse

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// A whitespace-free alert name and URL embedded in the standard notification
// layout are always recovered intact.
func TestProperty_ParseFieldsRecoversValues(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("alertname_and_link_round_trip", prop.ForAll(
		func(name, id, description string) bool {
			url := "https://app.opsgenie.com/alert/detail/" + id
			content := "alertname:" + name + " zone:eu description:" + description +
				" message:whatever Show Alert (" + url + ")"

			fields := ParseFields(content)
			if fields.AlertName == nil || *fields.AlertName != name {
				return false
			}
			if fields.AlertDetailURL == nil || *fields.AlertDetailURL != url {
				return false
			}
			return fields.Description != nil && *fields.Description == description
		},
		gen.Identifier(),
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

// Parsing never panics, and every found value is a substring of the input.
func TestProperty_ParseFieldsValuesComeFromInput(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("values_are_substrings", prop.ForAll(
		func(prefix, suffix string) bool {
			content := prefix + "alertname:" + suffix + " Show Alert (" + prefix
			fields := ParseFields(content)
			for _, v := range []*string{fields.AlertName, fields.Zone, fields.Description, fields.AlertDetailURL} {
				if v != nil && !strings.Contains(content, *v) {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
