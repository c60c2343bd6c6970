package mockbackend

// Config is the mock backend configuration.
type Config struct {
	// Address to listen on (e.g., ":8000")
	ListenAddr string

	// Answer is returned for every question once something is indexed.
	// Empty uses DefaultAnswer.
	Answer string

	// ContextRows caps how many indexed rows come back as context.
	// Zero uses DefaultContextRows.
	ContextRows int
}

const (
	DefaultAnswer      = "This is a mock answer. Start the real backend for model-generated replies."
	DefaultContextRows = 5

	// NoMatchAnswer is what the backend answers while nothing is indexed.
	NoMatchAnswer = "No information related to this question was found in the database."

	bannerMessage = "CSV RAG API active. Use /upload or /ask endpoints."
)
