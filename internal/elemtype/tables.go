package elemtype

// Static structural-knowledge tables; read-only after package init.

// tagPriority ranks base interactivity by tag. Buttons, links, and form
// controls rank highest; generic containers lowest.
var tagPriority = map[string]float64{
	"button":   1.00,
	"a":        0.90,
	"input":    0.90,
	"select":   0.85,
	"textarea": 0.85,
	"option":   0.60,
	"label":    0.50,
	"form":     0.40,
	"img":      0.30,
	"li":       0.30,
	"td":       0.25,
	"span":     0.20,
	"div":      0.15,
}

// defaultTagPriority applies to tags absent from the table.
const defaultTagPriority = 0.10

// typeHint is one entry of the fixed phrase list used to detect an explicit
// element-type mention in a query. Multi-word phrases are listed before
// their single-word fallbacks so the most specific hint wins.
type typeHint struct {
	phrase string
	kind   string
}

var typeHints = []typeHint{
	{"check box", "checkbox"},
	{"text box", "textfield"},
	{"text field", "textfield"},
	{"text area", "textarea"},
	{"search box", "searchfield"},
	{"search bar", "searchfield"},
	{"search field", "searchfield"},
	{"drop down", "select"},
	{"combo box", "select"},
	{"radio button", "radio"},
	{"checkbox", "checkbox"},
	{"dropdown", "select"},
	{"textarea", "textarea"},
	{"button", "button"},
	{"link", "link"},
	{"radio", "radio"},
	{"toggle", "checkbox"},
	{"switch", "checkbox"},
	{"image", "image"},
	{"icon", "image"},
	{"field", "textfield"},
	{"input", "textfield"},
	{"menu", "select"},
}

// inputTypeKeywords associates input subtypes with the query words that
// usually refer to them.
var inputTypeKeywords = map[string][]string{
	"submit":   {"submit", "send", "go", "save", "confirm", "apply"},
	"search":   {"search", "find", "query", "lookup"},
	"email":    {"email", "mail", "address"},
	"password": {"password", "pass", "pwd", "secret"},
	"checkbox": {"check", "agree", "accept", "remember", "terms", "tick"},
	"radio":    {"choose", "option", "pick"},
	"text":     {"name", "enter", "type", "field", "username", "city", "title"},
	"tel":      {"phone", "telephone", "mobile", "number"},
	"number":   {"amount", "quantity", "number", "count"},
	"file":     {"upload", "file", "attach", "browse"},
	"url":      {"url", "website", "link"},
	"date":     {"date", "day", "calendar"},
}

// roleBehaviorKeywords maps an inferred role to the behavior words a query
// would use when targeting that kind of element.
var roleBehaviorKeywords = map[string][]string{
	"button":         {"click", "press", "tap", "push"},
	"link":           {"click", "open", "navigate", "go", "visit", "follow"},
	"submit_button":  {"submit", "send", "confirm", "save", "apply", "click"},
	"login_button":   {"login", "signin", "sign", "log", "authenticate"},
	"search_input":   {"search", "find", "query", "lookup", "type"},
	"text_input":     {"type", "enter", "input", "write", "fill"},
	"email_input":    {"email", "mail", "type", "enter"},
	"password_input": {"password", "type", "enter"},
	"checkbox_input": {"check", "uncheck", "tick", "agree", "accept", "toggle"},
	"radio_input":    {"choose", "select", "pick", "check"},
	"select_input":   {"select", "choose", "pick", "dropdown"},
	"textarea_input": {"type", "write", "enter", "compose"},
	"file_input":     {"upload", "attach", "browse"},
}

// formQueryWords mark a query as form-oriented for the form-control bonus.
var formQueryWords = []string{"form", "submit", "enter", "fill", "field", "type", "agree", "check", "input", "select"}

// formControlTags are the tags eligible for the form-control bonus.
var formControlTags = map[string]bool{
	"input":    true,
	"select":   true,
	"textarea": true,
	"button":   true,
}

// interactiveSelectorHints are substrings of a selector or role that suggest
// the element is an interactive control even when the tag does not.
var interactiveSelectorHints = []string{"btn", "button", "link", "submit", "toggle", "clickable", "action"}
