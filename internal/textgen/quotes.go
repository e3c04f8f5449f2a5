package textgen

// Quote is a passage with attribution for quote mode.
type Quote struct {
	Text   string
	Author string
}

// FallbackQuote is used when the bank is somehow empty.
var FallbackQuote = Quote{Text: FallbackText, Author: "Unknown"}

var quoteBank = []Quote{
	{Text: "The only limit to our realization of tomorrow is our doubts of today.", Author: "Franklin D. Roosevelt"},
	{Text: "In the middle of difficulty lies opportunity.", Author: "Albert Einstein"},
	{Text: "It does not matter how slowly you go as long as you do not stop.", Author: "Confucius"},
	{Text: "Success is not final, failure is not fatal: it is the courage to continue that counts.", Author: "Winston Churchill"},
	{Text: "The future belongs to those who believe in the beauty of their dreams.", Author: "Eleanor Roosevelt"},
	{Text: "The best way to predict the future is to invent it.", Author: "Alan Kay"},
	{Text: "Programs must be written for people to read, and only incidentally for machines to execute.", Author: "Harold Abelson"},
	{Text: "Simplicity is the ultimate sophistication.", Author: "Leonardo da Vinci"},
	{Text: "Any sufficiently advanced technology is indistinguishable from magic.", Author: "Arthur C. Clarke"},
	{Text: "First, solve the problem. Then, write the code.", Author: "John Johnson"},
	{Text: "Talk is cheap. Show me the code.", Author: "Linus Torvalds"},
	{Text: "The journey of a thousand miles begins with one step.", Author: "Lao Tzu"},
	{Text: "Whether you think you can or you think you can't, you're right.", Author: "Henry Ford"},
	{Text: "Quality is not an act, it is a habit.", Author: "Aristotle"},
	{Text: "Do what you can, with what you have, where you are.", Author: "Theodore Roosevelt"},
}

// RandomQuote picks a quote from the bank.
func (g *Generator) RandomQuote() Quote {
	if len(quoteBank) == 0 {
		return FallbackQuote
	}
	return quoteBank[g.rnd.Intn(len(quoteBank))]
}
