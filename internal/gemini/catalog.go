package gemini

// KnownModels is the static set of upstream model ids the gateway advertises
// through its OpenAI- and native-flavoured listing endpoints. Code Assist has
// no discovery RPC of its own, so this mirrors the ids the real Gemini CLI
// ships with rather than querying anything at runtime.
var KnownModels = []string{
	"gemini-2.5-pro",
	"gemini-2.5-pro-preview-06-05",
	"gemini-2.5-flash",
	"gemini-2.5-flash-preview-09-2025",
	"gemini-2.5-flash-image",
	"gemini-2.5-flash-image-preview",
}
