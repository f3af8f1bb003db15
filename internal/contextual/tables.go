package contextual

// Static knowledge tables, built once at construction and read-only
// thereafter.

// synonymTable maps action and UI-vocabulary words to their synonyms.
var synonymTable = map[string][]string{
	"click":    {"press", "tap", "push", "hit", "select"},
	"type":     {"enter", "input", "write", "fill"},
	"search":   {"find", "lookup", "query", "seek", "browse"},
	"submit":   {"send", "confirm", "apply", "go", "save"},
	"login":    {"signin", "sign", "log", "authenticate"},
	"register": {"signup", "join", "create", "enroll"},
	"buy":      {"purchase", "order", "checkout", "shop"},
	"agree":    {"accept", "consent", "approve", "acknowledge"},
	"cancel":   {"close", "dismiss", "abort", "back"},
	"delete":   {"remove", "clear", "trash", "erase"},
	"edit":     {"modify", "change", "update", "revise"},
	"download": {"save", "export", "get"},
	"upload":   {"attach", "import", "add"},
	"next":     {"continue", "forward", "proceed"},
	"previous": {"back", "prior", "return"},
	"open":     {"show", "expand", "view", "display"},
	"menu":     {"navigation", "nav", "options", "hamburger"},
	"password": {"pass", "pwd", "secret"},
	"email":    {"mail", "address"},
	"name":     {"username", "user", "fullname"},
	"checkbox": {"check", "tick", "box"},
	"dropdown": {"select", "combobox", "list", "picker"},
	"button":   {"btn", "control"},
	"link":     {"anchor", "url", "hyperlink"},
	"share":    {"post", "send", "publish"},
	"play":     {"start", "resume", "watch"},
	"terms":    {"conditions", "policy", "agreement"},
}

// actionTagTable maps an inferred action verb to the element tags that can
// plausibly receive that action.
var actionTagTable = map[string][]string{
	"click":  {"button", "a", "input", "select"},
	"type":   {"input", "textarea"},
	"select": {"select", "input", "option"},
	"check":  {"input"},
	"submit": {"button", "input", "form"},
	"search": {"input", "button"},
}

// actionPriority fixes the order in which action keywords are tested against
// the query; the first hit wins, defaulting to "click".
var actionPriority = []string{"click", "type", "select", "check", "submit", "search"}

// actionKeywords maps each action type to the query words that imply it.
var actionKeywords = map[string][]string{
	"click":  {"click", "press", "tap", "push", "hit", "open", "toggle"},
	"type":   {"type", "enter", "input", "write", "fill"},
	"select": {"select", "choose", "pick", "dropdown"},
	"check":  {"check", "uncheck", "tick", "checkbox", "agree", "accept"},
	"submit": {"submit", "send", "confirm", "save", "apply"},
	"search": {"search", "find", "lookup", "query"},
}

// domainClusters groups closed keyword sets by page vocabulary domain. A
// query is assigned to its best-matching cluster and elements whose combined
// text falls in the same cluster are rewarded.
var domainClusters = map[string][]string{
	"auth":       {"login", "signin", "signup", "register", "password", "username", "email", "account", "logout", "remember", "forgot"},
	"ecommerce":  {"cart", "buy", "checkout", "price", "product", "order", "shipping", "payment", "coupon", "quantity", "wishlist"},
	"search":     {"search", "find", "filter", "query", "results", "sort", "browse"},
	"navigation": {"menu", "home", "back", "next", "previous", "nav", "page", "tab", "breadcrumb", "sidebar"},
	"form":       {"submit", "input", "field", "form", "required", "checkbox", "radio", "dropdown", "select", "agree", "terms", "optional"},
	"social":     {"share", "like", "follow", "comment", "post", "tweet", "friend", "profile", "subscribe"},
	"media":      {"play", "pause", "video", "audio", "volume", "mute", "fullscreen", "download", "stream"},
}

// stopWords are filtered out of queries before keyword scoring.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "to": true, "of": true, "in": true,
	"on": true, "for": true, "with": true, "and": true, "or": true,
	"is": true, "it": true, "that": true, "this": true, "my": true,
	"me": true, "at": true, "by": true, "be": true, "i": true,
	"please": true, "then": true, "now": true, "want": true,
}

// nearbySource pairs a descriptor surface accessor with the priority weight
// that source carries in the nearby-context score.
type nearbySource struct {
	name   string
	weight float64
}

// nearbySources lists the textual surfaces in descending reliability order.
var nearbySources = []nearbySource{
	{"aria", 1.00},
	{"placeholder", 0.90},
	{"text", 0.80},
	{"title", 0.70},
	{"name", 0.60},
	{"value", 0.50},
}
