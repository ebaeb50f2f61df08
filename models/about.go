package models

import "time"

type Skills struct {
	Programming []string `json:"programming" bson:"programming"`
	Tools       []string `json:"tools" bson:"tools"`
	Databases   []string `json:"databases" bson:"databases"`
	AI          []string `json:"ai" bson:"ai"`
	Testing     []string `json:"testing" bson:"testing"`
	DevOps      []string `json:"devops" bson:"devops"`
	Other       []string `json:"other" bson:"other"`
}

type Experience struct {
	Company     string   `json:"company" bson:"company"`
	Position    string   `json:"position" bson:"position"`
	Dates       string   `json:"dates" bson:"dates"`
	Description []string `json:"description" bson:"description"`
}

type Education struct {
	Institution string `json:"institution" bson:"institution"`
	Degree      string `json:"degree" bson:"degree"`
	Graduation  string `json:"graduation" bson:"graduation"`
	GPA         string `json:"gpa,omitempty" bson:"gpa,omitempty"`
}

type Contact struct {
	Email        string `json:"email" bson:"email"`
	Location     string `json:"location" bson:"location"`
	ResponseTime string `json:"responseTime" bson:"responseTime"`
}

type SocialLinks struct {
	Github    string `json:"github,omitempty" bson:"github,omitempty"`
	Linkedin  string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
	Youtube   string `json:"youtube,omitempty" bson:"youtube,omitempty"`
	Website   string `json:"website,omitempty" bson:"website,omitempty"`
}

// About is the singleton profile document.
type About struct {
	ID             string       `json:"id" bson:"id"`
	Name           string       `json:"name,omitempty" bson:"name,omitempty"`
	Headline       string       `json:"headline,omitempty" bson:"headline,omitempty"`
	Summary        string       `json:"summary" bson:"summary"`
	Qualifications []string     `json:"qualifications" bson:"qualifications"`
	Skills         Skills       `json:"skills" bson:"skills"`
	Experience     []Experience `json:"experience" bson:"experience"`
	Education      Education    `json:"education" bson:"education"`
	Contact        Contact      `json:"contact" bson:"contact"`
	SocialLinks    SocialLinks  `json:"socialLinks" bson:"socialLinks"`
	ResumeURL      string       `json:"resumeUrl,omitempty" bson:"resumeUrl,omitempty"`
	CreatedAt      time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt" bson:"updatedAt"`
}

func (a About) DocID() string      { return a.ID }
func (a About) Created() time.Time { return a.CreatedAt }

// AboutPatch replaces each top-level section that is present.
type AboutPatch struct {
	Name           *string       `json:"name"`
	Headline       *string       `json:"headline"`
	Summary        *string       `json:"summary"`
	Qualifications *[]string     `json:"qualifications"`
	Skills         *Skills       `json:"skills"`
	Experience     *[]Experience `json:"experience"`
	Education      *Education    `json:"education"`
	Contact        *Contact      `json:"contact"`
	SocialLinks    *SocialLinks  `json:"socialLinks"`
	ResumeURL      *string       `json:"resumeUrl"`
}

func (p AboutPatch) Apply(a *About) {
	set(&a.Name, p.Name)
	set(&a.Headline, p.Headline)
	set(&a.Summary, p.Summary)
	set(&a.Qualifications, p.Qualifications)
	set(&a.Skills, p.Skills)
	set(&a.Experience, p.Experience)
	set(&a.Education, p.Education)
	set(&a.Contact, p.Contact)
	set(&a.SocialLinks, p.SocialLinks)
	set(&a.ResumeURL, p.ResumeURL)
}
