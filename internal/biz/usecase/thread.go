package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Shadow-sword/tg-tldr/internal/biz/domain"
)

// maxThreadDepth bounds the rendered indentation. Reply chains deeper than
// this keep rendering at the cap instead of indenting further.
const maxThreadDepth = 64

// BuildThreads reconstructs the reply forest from one (group, day) scope.
// A message roots a thread when it is not a reply or its reply target does
// not resolve within the scope (other day, other group, deleted) — broken
// references degrade to roots, they are not errors. Children are ordered
// ascending by timestamp.
//
// Construction is a single linear pass over an id-to-node map; no
// recursion, so pathological chains cannot exhaust the stack.
func BuildThreads(messages []*domain.Message) []*domain.Thread {
	nodes := make(map[int64]*domain.Thread, len(messages))
	for _, msg := range messages {
		nodes[msg.ID] = &domain.Thread{Msg: msg}
	}

	var roots []*domain.Thread
	for _, msg := range messages {
		node := nodes[msg.ID]
		if msg.IsReply() && msg.ReplyToID != msg.ID {
			if parent, ok := nodes[msg.ReplyToID]; ok {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	for _, node := range nodes {
		sortByTime(node.Replies)
	}
	sortByTime(roots)
	return roots
}

func sortByTime(threads []*domain.Thread) {
	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].Msg.Timestamp.Before(threads[j].Msg.Timestamp)
	})
}

// RenderThreads serializes the forest depth-first in pre-order, one line
// per message as "<indent>[HH:MM] sender: text", replies marked and
// indented by depth, a blank line between independent roots. The result is
// the literal context block handed to the summarizer.
func RenderThreads(threads []*domain.Thread) string {
	var lines []string
	for _, root := range threads {
		renderThread(root, &lines)
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

type frame struct {
	node  *domain.Thread
	depth int
}

// renderThread walks one thread with an explicit stack instead of
// recursion.
func renderThread(root *domain.Thread, lines *[]string) {
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		depth := f.depth
		if depth > maxThreadDepth {
			depth = maxThreadDepth
		}
		prefix := strings.Repeat("  ", depth)
		if depth > 0 {
			prefix += "└ "
		}

		msg := f.node.Msg
		*lines = append(*lines, fmt.Sprintf("%s[%s] %s: %s",
			prefix, msg.Timestamp.UTC().Format("15:04"), msg.SenderName, msg.Text))

		// Push replies in reverse so the earliest reply renders first.
		for i := len(f.node.Replies) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Replies[i], depth: f.depth + 1})
		}
	}
}
