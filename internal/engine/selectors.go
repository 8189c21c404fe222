package engine

import "github.com/instaflow-labs/instaflow-cli/internal/resolve"

// Selector chains for the platform's interactive elements, ordered most
// specific first. SVG icons live in their own namespace, so those lookups go
// through name()-qualified XPath rather than a plain tag match.
//
// postLinksExpr is used both for counting and for indexed selection of a
// single link, so it stays a raw expression.
const postLinksExpr = `//a[contains(@href,'/p/') or contains(@href,'/reel/') or contains(@href,'/tv/')]`

var (
	likeButtons = []resolve.Strategy{
		resolve.ByXPath{Expr: `//section//*[name()='svg' and @aria-label='Like']`},
		resolve.ByXPath{Expr: `//*[name()='svg' and @aria-label='Like']`},
		resolve.ByXPath{Expr: `//div[@role='dialog']//*[name()='svg' and @aria-label='Like']`},
	}

	commentButtons = []resolve.Strategy{
		resolve.ByXPath{Expr: `//*[name()='svg' and @aria-label='Comment']`},
	}

	commentBoxes = []resolve.Strategy{
		resolve.ByAttr{Element: "textarea", Attr: "aria-label", Value: "Add a comment", Contains: true},
		resolve.ByAttr{Element: "textarea", Attr: "placeholder", Value: "Add a comment", Contains: true},
		resolve.ByXPath{Expr: `//form//textarea`},
	}

	followButtons = []resolve.Strategy{
		resolve.ByText{Element: "button", Text: "Follow"},
		resolve.ByXPath{Expr: `//button[.//div[normalize-space()='Follow']]`},
		resolve.ByXPath{Expr: `//div[@role='button' and normalize-space()='Follow']`},
	}

	followingButtons = []resolve.Strategy{
		resolve.ByText{Element: "button", Text: "Following"},
		resolve.ByXPath{Expr: `//button[.//div[normalize-space()='Following']]`},
		resolve.ByXPath{Expr: `//button[.//*[name()='svg' and @aria-label='Following']]`},
	}

	unfollowConfirms = []resolve.Strategy{
		resolve.ByXPath{Expr: `//div[@role='dialog']//*[normalize-space()='Unfollow']`},
		resolve.ByText{Element: "button", Text: "Unfollow"},
	}

	dmSearchBoxes = []resolve.Strategy{
		resolve.ByAttr{Element: "input", Attr: "name", Value: "queryBox"},
		resolve.ByAttr{Element: "input", Attr: "placeholder", Value: "Search", Contains: true},
		resolve.ByXPath{Expr: `//div[@role='dialog']//input`},
	}

	dmFirstResults = []resolve.Strategy{
		resolve.ByXPath{Expr: `(//div[@role='dialog']//div[@role='button'][.//img])[1]`},
		resolve.ByXPath{Expr: `(//div[@role='dialog']//label)[1]`},
	}

	dmNextButtons = []resolve.Strategy{
		resolve.ByXPath{Expr: `//div[@role='dialog']//div[@role='button' and normalize-space()='Next']`},
		resolve.ByText{Element: "button", Text: "Next"},
		resolve.ByText{Element: "div", Text: "Chat"},
	}

	dmMessageBoxes = []resolve.Strategy{
		resolve.ByAttr{Element: "textarea", Attr: "placeholder", Value: "Message", Contains: true},
		resolve.ByAttr{Element: "div", Attr: "aria-label", Value: "Message", Contains: true},
		resolve.ByRole{Role: "textbox"},
	}

	closeButtons = []resolve.Strategy{
		resolve.ByXPath{Expr: `//*[name()='svg' and @aria-label='Close']`},
		resolve.ByAttr{Element: "button", Attr: "aria-label", Value: "Close"},
	}
)
