package taxonomy

// Category is a funding search category. Each value carries a short keyword
// phrase for traditional search engines and a one-sentence conceptual
// description used when prompting generative engines.
type Category string

const (
	CategoryInfrastructureFunding      Category = "INFRASTRUCTURE_FUNDING"
	CategorySTEMEducation              Category = "STEM_EDUCATION"
	CategoryEarlyChildhoodEducation    Category = "EARLY_CHILDHOOD_EDUCATION"
	CategoryTeacherTraining            Category = "TEACHER_TRAINING"
	CategoryDigitalLiteracy            Category = "DIGITAL_LITERACY"
	CategoryVocationalTraining         Category = "VOCATIONAL_TRAINING"
	CategoryHigherEducationScholarship Category = "HIGHER_EDUCATION_SCHOLARSHIPS"
	CategoryAdultEducation             Category = "ADULT_EDUCATION"
	CategorySpecialNeedsEducation      Category = "SPECIAL_NEEDS_EDUCATION"
	CategoryMinorityInclusion          Category = "MINORITY_INCLUSION"
	CategoryRomaIntegration            Category = "ROMA_INTEGRATION"
	CategoryRuralDevelopment           Category = "RURAL_DEVELOPMENT"
	CategoryCommunityDevelopment       Category = "COMMUNITY_DEVELOPMENT"
	CategoryYouthPrograms              Category = "YOUTH_PROGRAMS"
	CategorySportsAndRecreation        Category = "SPORTS_AND_RECREATION"
	CategoryArtsAndCulture             Category = "ARTS_AND_CULTURE"
	CategoryEnvironmentalEducation     Category = "ENVIRONMENTAL_EDUCATION"
	CategoryHealthEducation            Category = "HEALTH_EDUCATION"
	CategorySchoolMeals                Category = "SCHOOL_MEALS"
	CategoryEducationalTechnology      Category = "EDUCATIONAL_TECHNOLOGY"
	CategoryLibraryDevelopment         Category = "LIBRARY_DEVELOPMENT"
	CategoryLanguageLearning           Category = "LANGUAGE_LEARNING"
	CategoryCivicEducation             Category = "CIVIC_EDUCATION"
	CategoryEntrepreneurshipEducation  Category = "ENTREPRENEURSHIP_EDUCATION"
	CategoryResearchGrants             Category = "RESEARCH_GRANTS"
	CategoryMobilityAndExchange        Category = "MOBILITY_AND_EXCHANGE"
	CategoryNonprofitCapacity          Category = "NONPROFIT_CAPACITY"
	CategorySocialInnovation           Category = "SOCIAL_INNOVATION"
	CategoryRefugeeEducation           Category = "REFUGEE_EDUCATION"
	CategoryGenderEqualityEducation    Category = "GENDER_EQUALITY_EDUCATION"
)

// AllCategories lists every category in a stable order.
func AllCategories() []Category {
	return []Category{
		CategoryInfrastructureFunding,
		CategorySTEMEducation,
		CategoryEarlyChildhoodEducation,
		CategoryTeacherTraining,
		CategoryDigitalLiteracy,
		CategoryVocationalTraining,
		CategoryHigherEducationScholarship,
		CategoryAdultEducation,
		CategorySpecialNeedsEducation,
		CategoryMinorityInclusion,
		CategoryRomaIntegration,
		CategoryRuralDevelopment,
		CategoryCommunityDevelopment,
		CategoryYouthPrograms,
		CategorySportsAndRecreation,
		CategoryArtsAndCulture,
		CategoryEnvironmentalEducation,
		CategoryHealthEducation,
		CategorySchoolMeals,
		CategoryEducationalTechnology,
		CategoryLibraryDevelopment,
		CategoryLanguageLearning,
		CategoryCivicEducation,
		CategoryEntrepreneurshipEducation,
		CategoryResearchGrants,
		CategoryMobilityAndExchange,
		CategoryNonprofitCapacity,
		CategorySocialInnovation,
		CategoryRefugeeEducation,
		CategoryGenderEqualityEducation,
	}
}

var categoryKeywords = map[Category]string{
	CategoryInfrastructureFunding:      "school infrastructure funding",
	CategorySTEMEducation:              "STEM education grants",
	CategoryEarlyChildhoodEducation:    "early childhood education funding",
	CategoryTeacherTraining:            "teacher training grants",
	CategoryDigitalLiteracy:            "digital literacy funding",
	CategoryVocationalTraining:         "vocational training grants",
	CategoryHigherEducationScholarship: "university scholarships",
	CategoryAdultEducation:             "adult education funding",
	CategorySpecialNeedsEducation:      "special needs education grants",
	CategoryMinorityInclusion:          "minority inclusion funding",
	CategoryRomaIntegration:            "Roma integration grants",
	CategoryRuralDevelopment:           "rural development funding",
	CategoryCommunityDevelopment:       "community development grants",
	CategoryYouthPrograms:              "youth program funding",
	CategorySportsAndRecreation:        "school sports funding",
	CategoryArtsAndCulture:             "arts and culture grants",
	CategoryEnvironmentalEducation:     "environmental education funding",
	CategoryHealthEducation:            "health education grants",
	CategorySchoolMeals:                "school meals program funding",
	CategoryEducationalTechnology:      "educational technology grants",
	CategoryLibraryDevelopment:         "library development funding",
	CategoryLanguageLearning:           "language learning grants",
	CategoryCivicEducation:             "civic education funding",
	CategoryEntrepreneurshipEducation:  "entrepreneurship education grants",
	CategoryResearchGrants:             "education research grants",
	CategoryMobilityAndExchange:        "student exchange scholarships",
	CategoryNonprofitCapacity:          "nonprofit capacity building grants",
	CategorySocialInnovation:           "social innovation funding",
	CategoryRefugeeEducation:           "refugee education grants",
	CategoryGenderEqualityEducation:    "girls education funding",
}

var categoryDescriptions = map[Category]string{
	CategoryInfrastructureFunding:      "funding for building, renovating, or equipping school buildings and educational facilities",
	CategorySTEMEducation:              "grants supporting science, technology, engineering, and mathematics education programs",
	CategoryEarlyChildhoodEducation:    "funding for kindergartens, preschools, and early development programs for young children",
	CategoryTeacherTraining:            "grants for professional development, qualification, and continuing education of teachers",
	CategoryDigitalLiteracy:            "funding for programs that teach computer skills and safe, productive use of digital technology",
	CategoryVocationalTraining:         "grants for vocational schools, apprenticeships, and practical job-skills training",
	CategoryHigherEducationScholarship: "scholarships and bursaries for university and college students",
	CategoryAdultEducation:             "funding for adult learning, second-chance education, and lifelong learning programs",
	CategorySpecialNeedsEducation:      "grants supporting inclusive education for children with disabilities and special educational needs",
	CategoryMinorityInclusion:          "funding aimed at educational inclusion of ethnic and linguistic minority communities",
	CategoryRomaIntegration:            "grants supporting educational integration and empowerment of Roma children and communities",
	CategoryRuralDevelopment:           "funding for education and community projects in rural and remote areas",
	CategoryCommunityDevelopment:       "grants for community centers, local initiatives, and neighborhood development projects",
	CategoryYouthPrograms:              "funding for after-school activities, youth clubs, and non-formal education for young people",
	CategorySportsAndRecreation:        "grants for school sports, physical education, and recreational facilities",
	CategoryArtsAndCulture:             "funding for arts education, cultural programs, and creative activities in schools",
	CategoryEnvironmentalEducation:     "grants for environmental awareness, sustainability, and outdoor education programs",
	CategoryHealthEducation:            "funding for health promotion, nutrition, and wellbeing programs in educational settings",
	CategorySchoolMeals:                "funding for school feeding programs and subsidized meals for students",
	CategoryEducationalTechnology:      "grants for classroom technology, devices, connectivity, and digital learning platforms",
	CategoryLibraryDevelopment:         "funding for school and community libraries, books, and reading promotion",
	CategoryLanguageLearning:           "grants for foreign language instruction and mother-tongue education programs",
	CategoryCivicEducation:             "funding for democracy, human rights, and citizenship education",
	CategoryEntrepreneurshipEducation:  "grants teaching business skills, financial literacy, and entrepreneurship to students",
	CategoryResearchGrants:             "funding for educational research, pilot studies, and evidence-based practice",
	CategoryMobilityAndExchange:        "scholarships and grants for student and teacher mobility and international exchange",
	CategoryNonprofitCapacity:          "grants strengthening the organizational capacity of educational nonprofits",
	CategorySocialInnovation:           "funding for innovative approaches to educational and social challenges",
	CategoryRefugeeEducation:           "grants supporting education access for refugee and migrant children",
	CategoryGenderEqualityEducation:    "funding promoting equal educational opportunities for girls and women",
}

// Keywords returns the short keyword phrase for keyword search engines.
func (c Category) Keywords() string { return categoryKeywords[c] }

// ConceptualDescription returns a one-sentence description used when
// prompting generative search engines.
func (c Category) ConceptualDescription() string { return categoryDescriptions[c] }

func (c Category) String() string { return string(c) }
