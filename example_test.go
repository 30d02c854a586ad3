package htmlclean_test

import (
	"fmt"
	"strings"

	"github.com/njchilds90/htmlclean"
)

func ExampleSanitize() {
	input := `<b>Hello</b> <a href="javascript:alert(1)" onclick="x">link</a><script>`
	fmt.Println(htmlclean.Sanitize(input, htmlclean.DefaultPolicy()))
	// Output: <b>Hello</b> <a>link</a>
}

func ExampleSanitize_attributeOrder() {
	input := `<img alt="A" style="x" src="http://x.com/a.png">`
	fmt.Println(htmlclean.Sanitize(input, nil))
	// Output: <img src="http://x.com/a.png" alt="A">
}

func ExampleSanitizeFunc() {
	input := `<p>Use <kbd>Ctrl</kbd> and <blink>look</blink></p>`
	clean := htmlclean.SanitizeFunc(input, nil, func(raw string) string {
		return "[" + strings.Trim(raw, "<>/") + "]"
	})
	fmt.Println(clean)
	// Output: <p>Use <kbd>Ctrl</kbd> and [blink]look[blink]</p>
}

func ExampleNewPolicy() {
	p := htmlclean.NewPolicy(map[string][]string{
		"span": {"title"},
		"br":   nil,
	})
	fmt.Println(htmlclean.Sanitize(`<span class="c" title="t">x</span><br/><b>y</b>`, p))
	// Output: <span title="t">x</span><br/>y
}

func ExampleStripTags() {
	text := htmlclean.StripTags(`<p>Hello <b>world</b></p>`)
	fmt.Println(text)
	// Output: Hello world
}
