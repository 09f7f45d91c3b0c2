package questions

// PageOutput carries a pre-rendered HTML document. huma writes []byte bodies
// verbatim.
type PageOutput struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Body        []byte
}
