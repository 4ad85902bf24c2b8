package agreement

// Notifier delivers lifecycle notices to the people involved.
// Delivery failures never roll back the operation that triggered them.
type Notifier interface {
	// Published tells the client that an agreement is ready for review.
	Published(instanceID, clientID string) error

	// FeedbackReceived tells the operator that the client asked for changes.
	FeedbackReceived(instanceID, comment string) error
}

type discardNotifier struct{}

func (discardNotifier) Published(string, string) error        { return nil }
func (discardNotifier) FeedbackReceived(string, string) error { return nil }
