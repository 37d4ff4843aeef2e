package metadata

import (
	"strings"
	"unicode"

	"onboarding/internal/domain/catalog"
	"onboarding/internal/domain/completion"
)

// Funding instance methods the forms offer.
var FundingMethods = []string{"ach", "wire", "check", "transfer"}

var sectionLabels = map[catalog.Section]string{
	catalog.SectionOwnerDetails: "Owner Details",
	catalog.SectionFirmDetails:  "Firm Details",
	catalog.SectionAccountSetup: "Account Setup",
	catalog.SectionFunding:      "Funding",
}

// narrative fields get a multi-line editor.
var narrativeFields = map[string]bool{
	"objectives":             true,
	"recommendations":        true,
	"alternatives":           true,
	"trustPurpose":           true,
	"marketScenarioResponse": true,
}

// Build derives form definitions for every catalog entity from the
// completion rules. Each section lists the fields its rules require.
func Build(cat *catalog.Catalog, engine *completion.Engine) *Registry {
	reg := NewRegistry()
	for _, e := range cat.Entities() {
		def := EntityDef{
			Name:     e.ID,
			Label:    e.Name,
			Kind:     e.Kind,
			Subtype:  e.Subtype,
			Sections: make([]SectionDef, 0, len(e.Sections)),
		}
		subject := completion.Subject{Kind: e.Kind, Subtype: e.Subtype}
		for _, s := range e.Sections {
			def.Sections = append(def.Sections, buildSection(subject, s, engine))
		}
		reg.Register(def)
	}
	return reg
}

func buildSection(subject completion.Subject, s catalog.Section, engine *completion.Engine) SectionDef {
	required, collections := engine.Required(subject, s)

	sd := SectionDef{
		Name:   s,
		Label:  sectionLabels[s],
		Fields: make([]FieldDef, 0, len(required)),
	}
	for _, name := range required {
		fd := FieldDef{
			Name:     name,
			Label:    guessLabel(name),
			Required: true,
		}
		mapFieldType(&fd)
		sd.Fields = append(sd.Fields, fd)
	}
	for _, name := range collections {
		sd.Collections = append(sd.Collections, buildCollection(name))
	}
	return sd
}

func buildCollection(name string) CollectionDef {
	cd := CollectionDef{
		Name:  name,
		Label: guessLabel(name),
	}
	if name == completion.FieldFundingInstances {
		cd.Types = FundingMethods
		cd.Columns = []FieldDef{
			{Name: "bank", Label: "Bank", Type: TypeString},
			{Name: completion.FieldFundingAmount, Label: "Amount", Type: TypeMoney, Scale: 2, Required: true},
		}
	}
	return cd
}

// mapFieldType picks the editor type from the field name.
func mapFieldType(def *FieldDef) {
	name := def.Name
	lower := strings.ToLower(name)

	switch {
	case name == catalog.AccountTypeField:
		def.Type = TypeEnum
		for _, st := range catalog.AccountSubtypes() {
			def.Options = append(def.Options, string(st))
		}
	case strings.HasPrefix(lower, "date") || strings.HasSuffix(name, "Date"):
		def.Type = TypeDate
	case strings.Contains(name, "Amount") || lower == "amount":
		def.Type = TypeMoney
		def.Scale = 2
	case narrativeFields[name]:
		def.Type = TypeText
	default:
		def.Type = TypeString
	}
}

// guessLabel splits a camelCase name into title-cased words.
func guessLabel(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteByte(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
