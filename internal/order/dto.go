package order

// ReviewInput is one product rating of a delivered order. Inputs with a zero
// rating are skipped.
type ReviewInput struct {
	ProductID string
	Rating    int
	Comment   string
}
