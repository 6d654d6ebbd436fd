package assets

// DefaultStyleName is the name of the built-in CSS style.
const DefaultStyleName = "homework"

// HeaderTemplateName is the name of the problem header template.
const HeaderTemplateName = "header"
