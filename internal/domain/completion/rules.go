package completion

import "onboarding/internal/domain/catalog"

// Field names the forms layer writes.
const (
	FieldFundingInstances = "fundingInstances"
	FieldFundingAmount    = "amount"
)

// OwnerDetailsFields are the personal-identity fields every member must supply.
var OwnerDetailsFields = []string{
	"name",
	"dateOfBirth",
	"taxId",
	"phone",
	"email",
	"address",
	"citizenship",
	"employmentStatus",
	"annualIncome",
	"netWorth",
	"sourceOfFunds",
}

// MemberFirmDetailsFields is the member suitability questionnaire.
var MemberFirmDetailsFields = []string{
	"liquidNetWorth",
	"householdIncome",
	"investmentExperience",
	"liquidityNeeds",
	"marketScenarioResponse",
}

// AccountFirmDetailsFields is the advisor narrative triple.
var AccountFirmDetailsFields = []string{
	"objectives",
	"recommendations",
	"alternatives",
}

// AccountSetupFields are required for every account type.
var AccountSetupFields = []string{
	catalog.AccountTypeField,
	"investmentObjective",
	"riskTolerance",
}

// TrustSetupFields identify the trust and how to reach the trustee.
var TrustSetupFields = []string{
	"trustPurpose",
	"trusteeName",
	"trusteeAddress",
}

// FundedSetupFields are required for every non-trust account type.
var FundedSetupFields = []string{
	"initialSourceOfFunds",
	"investmentAmount",
}

// DefaultRules is the built-in rule table.
func DefaultRules() []Rule {
	return []Rule{
		{
			Section: catalog.SectionOwnerDetails,
			When:    `kind == "member"`,
			Fields:  OwnerDetailsFields,
		},
		{
			Section: catalog.SectionFirmDetails,
			When:    `kind == "member"`,
			Fields:  MemberFirmDetailsFields,
		},
		{
			Section: catalog.SectionFirmDetails,
			When:    `kind == "account"`,
			Fields:  AccountFirmDetailsFields,
		},
		{
			Section: catalog.SectionAccountSetup,
			When:    `kind == "account"`,
			Fields:  AccountSetupFields,
		},
		{
			Section: catalog.SectionAccountSetup,
			When:    `kind == "account" && subtype == "trust"`,
			Fields:  TrustSetupFields,
		},
		{
			Section: catalog.SectionAccountSetup,
			When:    `kind == "account" && subtype != "trust"`,
			Fields:  FundedSetupFields,
		},
		{
			Section:       catalog.SectionFunding,
			When:          `kind == "account"`,
			AnyInstanceOf: FieldFundingInstances,
		},
	}
}
