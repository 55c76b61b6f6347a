package config

import "slices"

// StudyOptions is the reference data offered to clients when building a profile.
// It is built once at startup and never mutated.
type StudyOptions struct {
	StudySpots         []string
	StudyTimes         []string
	Colleges           []string // display order
	CollegeDepartments map[string][]string
}

// Departments returns the departments of college, or nil when the college is unknown.
func (o StudyOptions) Departments(college string) []string {
	return o.CollegeDepartments[college]
}

// ValidDepartment reports whether department belongs to college.
func (o StudyOptions) ValidDepartment(college, department string) bool {
	deps, ok := o.CollegeDepartments[college]
	if !ok {
		return false
	}
	return slices.Contains(deps, department)
}

// DefaultStudyOptions returns the fixed campus lists.
func DefaultStudyOptions() StudyOptions {
	colleges := []string{
		"College of Science",
		"College of Engineering",
		"College of Nuclear Science",
		"College of Humanities and Social Sciences",
		"College of Life Sciences and Medicine",
		"College of Electrical Engineering and Computer Science",
		"College of Technology Management",
		"College of Education",
		"College of Arts",
		"Taipei School of Economics and Political Science (TSE)",
		"College of Semiconductor Research",
		"Tsing Hua College",
		"Other Centers",
	}
	return StudyOptions{
		StudySpots: []string{
			"Louisa Café",
			"Library",
			"XCB (小吃部)",
			"Moonlight Area",
			"In your dormitory room",
			"Education Building",
			"Starbucks (In front of the campus main gate)",
		},
		StudyTimes: []string{
			"Early Morning (6-9 AM)",
			"Morning (9-12 PM)",
			"Afternoon (12-3 PM)",
			"Late Afternoon (3-6 PM)",
			"Evening (6-9 PM)",
			"Night (9-12 AM)",
			"Weekend Morning",
			"Weekend Evening",
		},
		Colleges: colleges,
		CollegeDepartments: map[string][]string{
			"College of Science": {
				"Department of Mathematics",
				"Department of Physics",
				"Department of Chemistry",
				"Institute of Statistics",
				"Institute of Astronomy",
				"Interdisciplinary Program of Sciences",
				"Institute of Computational and Modeling Science",
			},
			"College of Engineering": {
				"Department of Chemical Engineering",
				"Department of Power Mechanical Engineering",
				"Department of Materials Science and Engineering",
				"Department of Industrial Engineering and Engineering Management",
				"Institute / Program of Nanoengineering and Microsystems",
				"Biomedical Engineering (institute / program)",
				"Interdisciplinary Program of Engineering",
				"Dual Master Program for Global Operation Management",
			},
			"College of Nuclear Science": {
				"Department of Engineering and System Science",
				"Department of Biomedical Engineering and Environmental Science",
				"Institute of Nuclear Engineering and Science",
				"Institute of Analytical and Environmental Sciences",
				"Interdisciplinary Program of Nuclear Science",
				"International Ph.D. Program in Environmental Science and Technology (UST)",
			},
			"College of Humanities and Social Sciences": {
				"Department of Chinese Literature",
				"Department of Foreign Languages and Literature",
				"Institute of Philosophy",
				"Institute of History",
				"Institute of Anthropology",
				"Institute of Sociology",
				"Institute of Linguistics",
				"Institute of Taiwan Literature",
				"Graduate Program on Taiwan Studies",
				"International Master's Program in Inter-Asia Cultural Studies (UST)",
				"Master's Program in Chinese Language and Culture",
				"Interdisciplinary Program of Humanities and Social Sciences",
			},
			"College of Life Sciences and Medicine": {
				"Department of Life Science",
				"Department of Medical Science",
				"Interdisciplinary Program of Life Sciences and Medicine",
				"Institute of Molecular and Cellular Biology",
				"Institute of Molecular Medicine",
				"Institute of Bioinformatics and Structural Biology",
				"Institute of Biotechnology",
				"Institute of Systems Neuroscience",
				"International Ph.D. Program in Interdisciplinary Neuroscience (UST)",
				"Precision Medicine Ph.D. Program",
			},
			"College of Electrical Engineering and Computer Science": {
				"Department of Electrical Engineering",
				"Department of Computer Science",
				"Interdisciplinary Program of Electrical Engineering & Computer Science",
				"Institute of Electronics Engineering",
				"Institute of Communications Engineering",
				"Institute of Information Systems and Applications",
				"Institute of Photonics Technologies",
				"International Ph.D. Program in Photonics (UST)",
			},
			"College of Technology Management": {
				"Department of Economics",
				"Department of Quantitative Finance",
				"Interdisciplinary Program of Management and Technology",
				"Institute of Technology Management",
				"Institute of Law for Science and Technology",
				"Institute of Service Science",
				"EMBA",
				"EMBA Shenzhen",
				"MBA",
				"MFB",
				"MPM",
				"IMBA",
			},
			"College of Education": {
				"Department of Education and Learning Technology",
				"Department of Early Childhood Education",
				"Department of Special Education",
				"Department of Educational Psychology and Counseling",
				"Department of Kinesiology",
				"Department of English Instruction",
				"Department of Environmental and Cultural Resources",
				"Interdisciplinary Program of Education",
				"Institute of Taiwan Languages and Language Teaching",
				"Graduate Institute of Mathematics and Science Education",
				"Institute of Learning Sciences and Technologies",
				"Center for English Education",
			},
			"College of Arts": {
				"Department of Music",
				"Department of Arts and Design",
				"Interdisciplinary Program of Technology and Art",
			},
			"Taipei School of Economics and Political Science (TSE)": {
				"Taipei School of Economics and Political Science",
			},
			"College of Semiconductor Research": {
				"College of Semiconductor Research",
			},
			"Tsing Hua College": {
				"Tsing Hua College (residential / interdisciplinary / liberal arts)",
				"Tsing Hua Interdisciplinary Program",
				"Tsing Hua College International Bachelor's Program",
				"Residential College (within Tsing Hua College)",
			},
			"Other Centers": {
				"Center for General Education",
				"Center for Teacher Education",
				"Center for Language Education",
				"Research Center for Technology and Art",
				"Arts Center",
				"Military Instructors' Office",
				"Physical Education Office",
			},
		},
	}
}
