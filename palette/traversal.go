package palette

import (
	"fmt"
	"strings"
)

// The page template nests #controls in <main>, wraps every control button
// in its own form and gives #traversal-demo these children.
var (
	controlsParent        = "main"
	controlWrapper        = "form"
	traversalDemoChildren = []string{"h2", "p", "ul"}
)

// controlChild names the #controls child holding the button with id.
func controlChild(id string) string {
	return controlWrapper + ">button#" + id
}

// Traversal describes the page tree the way a walk over its elements
// reports it.
func Traversal() []string {
	children := make([]string, 0, len(Colors)+1)
	for _, id := range append(append([]string(nil), Colors...), RandomID) {
		children = append(children, controlChild(id))
	}

	return []string{
		"🔍 DOM Traversal Examples:",
		fmt.Sprintf("controls children: [%s]", strings.Join(children, " ")),
		"first child: " + controlChild(Colors[0]),
		"second child via sibling: " + controlChild(Colors[1]),
		"controls parent: " + strings.ToUpper(controlsParent),
		fmt.Sprintf("traversal-demo children: [%s]", strings.Join(traversalDemoChildren, " ")),
		"traversal-demo first child: " + strings.ToUpper(traversalDemoChildren[0]),
	}
}

// Reflection returns the closing questions and answers of the page.
func Reflection() []string {
	return []string{
		"🤔 Reflection Questions:",
		"1. What's the difference between nodes and elements in the DOM?",
		"   Answer: Nodes are any point in the DOM tree (elements, text, comments, etc.).",
		"   Elements are specific types of nodes that represent HTML elements.",
		"",
		"2. When would you prefer classList vs. setting style directly?",
		"   Answer: Use classList for reusable styles and better maintainability.",
		"   Use direct style for one-off changes or dynamic values.",
		"",
		"3. How does event delegation reduce the number of event listeners?",
		"   Answer: Instead of attaching listeners to each child element,",
		"   you attach one listener to a parent and use event.target to handle events.",
	}
}
