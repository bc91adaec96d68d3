package lead

import "context"

// ProfileRepository persists contact profiles.
type ProfileRepository interface {
	// UpsertByEmail updates the profile with the same email or inserts a new one, then sets
	// profile.ID and CreatedAt to the stored row.
	UpsertByEmail(ctx context.Context, profile *Profile) error
}

// SubmissionRepository records outbound webhook calls.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *Submission) error
}

// Poster delivers a JSON payload to a webhook URL. A non-2xx answer is returned as an error
// together with the delivery.
type Poster interface {
	PostJSON(ctx context.Context, url string, payload any) (*Delivery, error)
}
