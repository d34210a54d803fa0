package taxonomy

import "github.com/shopspring/decimal"

// FundingSourceType classifies the kind of organization behind a funding
// program.
type FundingSourceType string

const (
	SourceGovernmentAgency     FundingSourceType = "GOVERNMENT_AGENCY"
	SourceEUInstitution        FundingSourceType = "EU_INSTITUTION"
	SourcePrivateFoundation    FundingSourceType = "PRIVATE_FOUNDATION"
	SourceCorporateFoundation  FundingSourceType = "CORPORATE_FOUNDATION"
	SourceInternationalOrg     FundingSourceType = "INTERNATIONAL_ORGANIZATION"
	SourceBilateralDonor       FundingSourceType = "BILATERAL_DONOR"
	SourceUniversity           FundingSourceType = "UNIVERSITY"
	SourceResearchCouncil      FundingSourceType = "RESEARCH_COUNCIL"
	SourceNGORegranting        FundingSourceType = "NGO_REGRANTING"
	SourceCommunityFoundation  FundingSourceType = "COMMUNITY_FOUNDATION"
	SourceBankProgram          FundingSourceType = "BANK_PROGRAM"
	SourceCrowdfundingPlatform FundingSourceType = "CROWDFUNDING_PLATFORM"
)

// AllFundingSourceTypes lists every source type in a stable order.
func AllFundingSourceTypes() []FundingSourceType {
	return []FundingSourceType{
		SourceGovernmentAgency, SourceEUInstitution, SourcePrivateFoundation,
		SourceCorporateFoundation, SourceInternationalOrg, SourceBilateralDonor,
		SourceUniversity, SourceResearchCouncil, SourceNGORegranting,
		SourceCommunityFoundation, SourceBankProgram, SourceCrowdfundingPlatform,
	}
}

var sourceTypeKeywords = map[FundingSourceType]string{
	SourceGovernmentAgency:     "government funding program",
	SourceEUInstitution:        "EU funding program",
	SourcePrivateFoundation:    "private foundation grants",
	SourceCorporateFoundation:  "corporate foundation grants",
	SourceInternationalOrg:     "international organization grants",
	SourceBilateralDonor:       "bilateral donor program",
	SourceUniversity:           "university funding program",
	SourceResearchCouncil:      "research council grants",
	SourceNGORegranting:        "NGO regranting program",
	SourceCommunityFoundation:  "community foundation grants",
	SourceBankProgram:          "bank social program",
	SourceCrowdfundingPlatform: "education crowdfunding",
}

// Keywords returns a keyword phrase hinting at this source type.
func (s FundingSourceType) Keywords() string { return sourceTypeKeywords[s] }

func (s FundingSourceType) String() string { return string(s) }

// FundingMechanism classifies how the money is disbursed.
type FundingMechanism string

const (
	MechanismGrant         FundingMechanism = "GRANT"
	MechanismScholarship   FundingMechanism = "SCHOLARSHIP"
	MechanismFellowship    FundingMechanism = "FELLOWSHIP"
	MechanismPrizeAward    FundingMechanism = "PRIZE_AWARD"
	MechanismLoan          FundingMechanism = "LOAN"
	MechanismMatchingFund  FundingMechanism = "MATCHING_FUND"
	MechanismInKindSupport FundingMechanism = "IN_KIND_SUPPORT"
	MechanismSponsorship   FundingMechanism = "SPONSORSHIP"
)

// AllFundingMechanisms lists every mechanism in a stable order.
func AllFundingMechanisms() []FundingMechanism {
	return []FundingMechanism{
		MechanismGrant, MechanismScholarship, MechanismFellowship,
		MechanismPrizeAward, MechanismLoan, MechanismMatchingFund,
		MechanismInKindSupport, MechanismSponsorship,
	}
}

var mechanismKeywords = map[FundingMechanism]string{
	MechanismGrant:         "grant",
	MechanismScholarship:   "scholarship",
	MechanismFellowship:    "fellowship",
	MechanismPrizeAward:    "prize award",
	MechanismLoan:          "education loan",
	MechanismMatchingFund:  "matching fund",
	MechanismInKindSupport: "in-kind support",
	MechanismSponsorship:   "sponsorship",
}

// Keywords returns a keyword phrase for this mechanism.
func (m FundingMechanism) Keywords() string { return mechanismKeywords[m] }

func (m FundingMechanism) String() string { return string(m) }

// ProjectScale buckets projects by budget. Amounts are EUR with scale 2.
type ProjectScale string

const (
	ScaleMicro    ProjectScale = "MICRO"
	ScaleSmall    ProjectScale = "SMALL"
	ScaleMedium   ProjectScale = "MEDIUM"
	ScaleLarge    ProjectScale = "LARGE"
	ScaleFlagship ProjectScale = "FLAGSHIP"
)

// AllProjectScales lists every scale in ascending budget order.
func AllProjectScales() []ProjectScale {
	return []ProjectScale{ScaleMicro, ScaleSmall, ScaleMedium, ScaleLarge, ScaleFlagship}
}

type scaleRange struct{ min, max decimal.Decimal }

var scaleRanges = map[ProjectScale]scaleRange{
	ScaleMicro:    {decimal.NewFromInt(500), decimal.NewFromInt(5000)},
	ScaleSmall:    {decimal.NewFromInt(5000), decimal.NewFromInt(25000)},
	ScaleMedium:   {decimal.NewFromInt(25000), decimal.NewFromInt(100000)},
	ScaleLarge:    {decimal.NewFromInt(100000), decimal.NewFromInt(1000000)},
	ScaleFlagship: {decimal.NewFromInt(1000000), decimal.NewFromInt(10000000)},
}

// MinAmount returns the lower budget bound (EUR, scale 2).
func (p ProjectScale) MinAmount() decimal.Decimal {
	return scaleRanges[p].min.Round(2)
}

// MaxAmount returns the upper budget bound (EUR, scale 2).
func (p ProjectScale) MaxAmount() decimal.Decimal {
	return scaleRanges[p].max.Round(2)
}

func (p ProjectScale) String() string { return string(p) }

// BeneficiaryPopulation identifies who ultimately benefits.
type BeneficiaryPopulation string

const (
	BeneficiaryPrimaryStudents       BeneficiaryPopulation = "PRIMARY_STUDENTS"
	BeneficiarySecondaryStudents     BeneficiaryPopulation = "SECONDARY_STUDENTS"
	BeneficiaryUniversityStudents    BeneficiaryPopulation = "UNIVERSITY_STUDENTS"
	BeneficiaryTeachers              BeneficiaryPopulation = "TEACHERS"
	BeneficiarySchoolLeaders         BeneficiaryPopulation = "SCHOOL_LEADERS"
	BeneficiaryEarlyChildhood        BeneficiaryPopulation = "EARLY_CHILDHOOD"
	BeneficiaryChildrenWithDisab     BeneficiaryPopulation = "CHILDREN_WITH_DISABILITIES"
	BeneficiaryRomaChildren          BeneficiaryPopulation = "ROMA_CHILDREN"
	BeneficiaryRuralCommunities      BeneficiaryPopulation = "RURAL_COMMUNITIES"
	BeneficiaryLowIncomeFamilies     BeneficiaryPopulation = "LOW_INCOME_FAMILIES"
	BeneficiaryRefugeesMigrants      BeneficiaryPopulation = "REFUGEES_MIGRANTS"
	BeneficiaryGirlsAndWomen         BeneficiaryPopulation = "GIRLS_AND_WOMEN"
	BeneficiaryYouthAtRisk           BeneficiaryPopulation = "YOUTH_AT_RISK"
	BeneficiaryAdultLearners         BeneficiaryPopulation = "ADULT_LEARNERS"
	BeneficiaryUnemployedAdults      BeneficiaryPopulation = "UNEMPLOYED_ADULTS"
	BeneficiaryMinorityGroups        BeneficiaryPopulation = "MINORITY_GROUPS"
	BeneficiaryOrphans               BeneficiaryPopulation = "ORPHANS"
	BeneficiaryGiftedStudents        BeneficiaryPopulation = "GIFTED_STUDENTS"
)

// AllBeneficiaryPopulations lists every population in a stable order.
func AllBeneficiaryPopulations() []BeneficiaryPopulation {
	return []BeneficiaryPopulation{
		BeneficiaryPrimaryStudents, BeneficiarySecondaryStudents,
		BeneficiaryUniversityStudents, BeneficiaryTeachers,
		BeneficiarySchoolLeaders, BeneficiaryEarlyChildhood,
		BeneficiaryChildrenWithDisab, BeneficiaryRomaChildren,
		BeneficiaryRuralCommunities, BeneficiaryLowIncomeFamilies,
		BeneficiaryRefugeesMigrants, BeneficiaryGirlsAndWomen,
		BeneficiaryYouthAtRisk, BeneficiaryAdultLearners,
		BeneficiaryUnemployedAdults, BeneficiaryMinorityGroups,
		BeneficiaryOrphans, BeneficiaryGiftedStudents,
	}
}

func (b BeneficiaryPopulation) String() string { return string(b) }

// RecipientOrganizationType identifies who may apply.
type RecipientOrganizationType string

const (
	RecipientPublicSchool       RecipientOrganizationType = "PUBLIC_SCHOOL"
	RecipientPrivateSchool      RecipientOrganizationType = "PRIVATE_SCHOOL"
	RecipientMunicipality       RecipientOrganizationType = "MUNICIPALITY"
	RecipientNGO                RecipientOrganizationType = "NGO"
	RecipientUniversity         RecipientOrganizationType = "UNIVERSITY"
	RecipientResearchInstitute  RecipientOrganizationType = "RESEARCH_INSTITUTE"
	RecipientKindergarten       RecipientOrganizationType = "KINDERGARTEN"
	RecipientVocationalSchool   RecipientOrganizationType = "VOCATIONAL_SCHOOL"
	RecipientCommunityCenter    RecipientOrganizationType = "COMMUNITY_CENTER"
	RecipientLibrary            RecipientOrganizationType = "LIBRARY"
	RecipientSocialEnterprise   RecipientOrganizationType = "SOCIAL_ENTERPRISE"
	RecipientIndividual         RecipientOrganizationType = "INDIVIDUAL"
	RecipientInformalGroup      RecipientOrganizationType = "INFORMAL_GROUP"
	RecipientChurchOrganization RecipientOrganizationType = "CHURCH_ORGANIZATION"
)

// AllRecipientOrganizationTypes lists every recipient type in a stable order.
func AllRecipientOrganizationTypes() []RecipientOrganizationType {
	return []RecipientOrganizationType{
		RecipientPublicSchool, RecipientPrivateSchool, RecipientMunicipality,
		RecipientNGO, RecipientUniversity, RecipientResearchInstitute,
		RecipientKindergarten, RecipientVocationalSchool, RecipientCommunityCenter,
		RecipientLibrary, RecipientSocialEnterprise, RecipientIndividual,
		RecipientInformalGroup, RecipientChurchOrganization,
	}
}

func (r RecipientOrganizationType) String() string { return string(r) }

// QueryLanguage is an ISO 639-1 language a query may be generated in.
type QueryLanguage string

const (
	LangEnglish   QueryLanguage = "EN"
	LangBulgarian QueryLanguage = "BG"
	LangGerman    QueryLanguage = "DE"
	LangFrench    QueryLanguage = "FR"
	LangSpanish   QueryLanguage = "ES"
	LangItalian   QueryLanguage = "IT"
	LangRomanian  QueryLanguage = "RO"
	LangGreek     QueryLanguage = "EL"
	LangRussian   QueryLanguage = "RU"
)

// AllQueryLanguages lists every language in a stable order.
func AllQueryLanguages() []QueryLanguage {
	return []QueryLanguage{
		LangEnglish, LangBulgarian, LangGerman, LangFrench, LangSpanish,
		LangItalian, LangRomanian, LangGreek, LangRussian,
	}
}

var languageNativeNames = map[QueryLanguage]string{
	LangEnglish:   "English",
	LangBulgarian: "български",
	LangGerman:    "Deutsch",
	LangFrench:    "Français",
	LangSpanish:   "Español",
	LangItalian:   "Italiano",
	LangRomanian:  "Română",
	LangGreek:     "Ελληνικά",
	LangRussian:   "Русский",
}

// NativeName returns the language's name in the language itself.
func (l QueryLanguage) NativeName() string { return languageNativeNames[l] }

func (l QueryLanguage) String() string { return string(l) }
