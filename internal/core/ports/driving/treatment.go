package driving

import "context"

// TreatmentLink is where treatment information for a disease lives.
type TreatmentLink struct {
	// Disease is the disease the link was resolved for.
	Disease string

	// Target is a local file path or a URL.
	Target string

	// Local is true when Target is a file on disk.
	Local bool
}

// TreatmentService resolves and opens treatment information.
type TreatmentService interface {
	// Resolve returns the local document when present, else a web search URL.
	Resolve(disease string) (TreatmentLink, error)

	// Open resolves the link and opens it with the OS default handler.
	Open(ctx context.Context, disease string) (TreatmentLink, error)
}
