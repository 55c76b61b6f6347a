package domain

import "strings"

// Course is one entry of the institution's open course catalog.
type Course struct {
	Code   string `json:"code" dynamodbav:"course_code"`
	NameEN string `json:"name_en" dynamodbav:"name_en"`
	NameZH string `json:"name_zh" dynamodbav:"name_zh"`
	// SearchText is the lowercased concatenation of code and names, used for substring search.
	SearchText string `json:"-" dynamodbav:"search_text"`
}

// DisplayName prefers the English name, then the Chinese name, then the code.
func (c Course) DisplayName() string {
	switch {
	case c.NameEN != "":
		return c.NameEN
	case c.NameZH != "":
		return c.NameZH
	default:
		return c.Code
	}
}

// Display renders the course as "code - name".
func (c Course) Display() string {
	name := c.NameEN
	if name == "" {
		name = c.NameZH
	}
	return c.Code + " - " + name
}

// BuildSearchText fills SearchText from the code and names.
func (c *Course) BuildSearchText() {
	c.SearchText = strings.ToLower(strings.Join([]string{c.Code, c.NameEN, c.NameZH}, " "))
}
