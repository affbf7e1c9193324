package models

type MenuDestination struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

var MenuDestinations = []MenuDestination{
	{Key: "home", Title: "Home"},
	{Key: "member-area", Title: "Member Area"},
	{Key: "idea-bank", Title: "Idea Bank"},
	{Key: "activity-board", Title: "Activity Board"},
}

var DocumentTypes = []DocumentType{
	DocRequestForAction,
	DocRequestForInformation,
	DocRecommendation,
	DocBill,
	DocMotion,
	DocMotionOfApplause,
	DocMotionOfCondolence,
}

var CouncilMembers = []string{
	"Dayana Soares de Camargo (PDT)",
	"Denner Fernando Duarte Senhor (PL)",
	"Eduardo Signor (União Brasil)",
	"Fabiana Dolci Otoni (PP)",
	"Ivone Maria Capitanio Missio (PP)",
	"Leandro Keller Colleraus (PDT)",
	"Marina Machado (PL)",
	"Paulo Flores de Moraes (PDT)",
	"Tomas Fiuza (PP)",
}

var IdeaAreas = []string{
	"Agriculture and Rural Area",
	"Culture and Leisure",
	"Education",
	"Employment",
	"Infrastructure",
	"Environment",
	"Urban Mobility",
	"Health",
	"Public Safety",
	"Technology",
	"Traffic",
}

var AgeRanges = []string{
	"Under 18",
	"18 to 30",
	"31 to 45",
	"46 to 60",
	"Over 60",
}

type Catalog struct {
	Menu           []MenuDestination `json:"menu"`
	DocumentTypes  []DocumentType    `json:"document_types"`
	CouncilMembers []string          `json:"council_members"`
	IdeaAreas      []string          `json:"idea_areas"`
	AgeRanges      []string          `json:"age_ranges"`
}

func DefaultCatalog() Catalog {
	return Catalog{
		Menu:           MenuDestinations,
		DocumentTypes:  DocumentTypes,
		CouncilMembers: CouncilMembers,
		IdeaAreas:      IdeaAreas,
		AgeRanges:      AgeRanges,
	}
}

func IsDocumentType(t DocumentType) bool {
	for _, d := range DocumentTypes {
		if d == t {
			return true
		}
	}
	return false
}

func IsCouncilMember(name string) bool {
	return contains(CouncilMembers, name)
}

func IsIdeaArea(area string) bool {
	return contains(IdeaAreas, area)
}

func IsAgeRange(r string) bool {
	return contains(AgeRanges, r)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
