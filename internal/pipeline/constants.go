package pipeline

// Default values for statement processing.
// These can be overridden via configuration.
const (
	// DefaultModelName is the default Gemini model used for extraction and insights.
	DefaultModelName = "gemini-2.5-flash"

	// DefaultTokenWarningThreshold is the total token count above which a
	// call is logged as expensive.
	DefaultTokenWarningThreshold = 4000

	// maxRawTextInWarning caps how much of a malformed model response is
	// copied into a quality warning.
	maxRawTextInWarning = 500
)
