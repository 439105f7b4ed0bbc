package domain

import "fmt"

// Strategy is one way of searching derived from a rule's hint text.
// The set of implementations is closed: PageHint, UnderHeading,
// AfterKeyword and WithKeyword.
type Strategy interface {
	// Kind returns the strategy tag.
	Kind() StrategyKind

	fmt.Stringer
	strategy()
}

// StrategyKind tags a Strategy variant.
type StrategyKind string

// Strategy tags.
const (
	StrategyPageHint     StrategyKind = "page_hint"
	StrategyUnderHeading StrategyKind = "under_heading"
	StrategyAfterKeyword StrategyKind = "after_keyword"
	StrategyWithKeyword  StrategyKind = "with_keyword"
)

// PageHint restricts searching to one page (0-based).
type PageHint struct {
	PageIndex int
}

// Kind returns StrategyPageHint.
func (PageHint) Kind() StrategyKind { return StrategyPageHint }

func (s PageHint) String() string { return fmt.Sprintf("page_hint(%d)", s.PageIndex) }

func (PageHint) strategy() {}

// UnderHeading matches a heading line and takes the lines below it.
type UnderHeading struct {
	Heading string
}

// Kind returns StrategyUnderHeading.
func (UnderHeading) Kind() StrategyKind { return StrategyUnderHeading }

func (s UnderHeading) String() string { return fmt.Sprintf("under_heading(%q)", s.Heading) }

func (UnderHeading) strategy() {}

// AfterKeyword takes the text following a phrase.
type AfterKeyword struct {
	Keyword string
}

// Kind returns StrategyAfterKeyword.
func (AfterKeyword) Kind() StrategyKind { return StrategyAfterKeyword }

func (s AfterKeyword) String() string { return fmt.Sprintf("after_keyword(%q)", s.Keyword) }

func (AfterKeyword) strategy() {}

// WithKeyword takes the whole line containing a phrase.
type WithKeyword struct {
	Keyword string
}

// Kind returns StrategyWithKeyword.
func (WithKeyword) Kind() StrategyKind { return StrategyWithKeyword }

func (s WithKeyword) String() string { return fmt.Sprintf("with_keyword(%q)", s.Keyword) }

func (WithKeyword) strategy() {}
