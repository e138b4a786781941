package services

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"agristore/internal/models"
)

// Fixed reply texts. The agent-offer text is also what the loop-avoidance
// scan matches against, so the two must stay in sync.
const (
	replyAgentConfirm  = "I can connect you to a live agent. Would you like me to proceed?"
	replyAgentNotify   = "Okay, I will notify our team. Please share your phone or email for a quick follow-up."
	replyGreeting      = "Hello! How can I assist you today?"
	replyClarify       = "Could you clarify what you are looking for? For example: product price, contact, or payment."
	replyFallbackOffer = "I'm not sure yet. Can I connect you to an agent?"
)

var (
	agentOfferPattern  = regexp.MustCompile(`(?i)connect you to an agent`)
	contactPagePattern = regexp.MustCompile(`(?i)contact|about|reach`)
	queryTermPattern   = regexp.MustCompile(`[^a-z0-9]+`)
)

// intentMatcher pairs an intent name with its ordered pattern list.
type intentMatcher struct {
	name     string
	patterns []*regexp.Regexp
}

// Declared intent order is load-bearing: for utterances matching several
// intents the first declared match wins.
var defaultIntents = []intentMatcher{
	{models.IntentGreet, []*regexp.Regexp{regexp.MustCompile(`(?i)\b(hi|hello|hey)\b`)}},
	{models.IntentProducts, []*regexp.Regexp{regexp.MustCompile(`(?i)product|machine|equipment|price|cost|catalog|range`)}},
	{models.IntentContact, []*regexp.Regexp{regexp.MustCompile(`(?i)contact|phone|email|address|reach|call|whatsapp`)}},
	{models.IntentAgent, []*regexp.Regexp{regexp.MustCompile(`(?i)agent|human|support|live|person|representative`)}},
}

// DialogueResult is one completed conversational turn.
type DialogueResult struct {
	Intent string
	Reply  string
}

// DialogueEngine classifies utterances and produces replies from the
// knowledge base, graph and session state. It mutates session flags but never
// appends to session history; the caller records both sides of the turn after
// the engine returns, so the loop-avoidance scan only sees completed turns.
type DialogueEngine struct {
	intents []intentMatcher
}

// NewDialogueEngine creates an engine with the default intent set
func NewDialogueEngine() *DialogueEngine {
	return &DialogueEngine{intents: defaultIntents}
}

// DetectIntent returns the first declared intent with a matching pattern,
// or fallback when nothing matches.
func (e *DialogueEngine) DetectIntent(text string) string {
	for _, intent := range e.intents {
		for _, p := range intent.patterns {
			if p.MatchString(text) {
				return intent.name
			}
		}
	}
	return models.IntentFallback
}

// Respond runs one dialogue turn.
func (e *DialogueEngine) Respond(text string, kb *models.KnowledgeBase, graph *KnowledgeGraph, sess *models.Session) DialogueResult {
	intent := e.DetectIntent(text)

	if sess != nil {
		sess.State.LastIntent = intent
	}

	// Agent handoff with one-time confirmation; repeated agent requests get
	// the idempotent notify reply.
	if intent == models.IntentAgent {
		if sess != nil && !sess.State.AgentRequested {
			sess.State.AgentRequested = true
			return DialogueResult{Intent: intent, Reply: replyAgentConfirm}
		}
		return DialogueResult{Intent: intent, Reply: replyAgentNotify}
	}

	if reply := e.buildAnswerFromKB(intent, kb, graph, sess); reply != "" {
		return DialogueResult{Intent: intent, Reply: reply}
	}

	if intent == models.IntentGreet {
		return DialogueResult{Intent: intent, Reply: replyGreeting}
	}

	// Loop avoidance: if the previous bot turn already offered an agent,
	// ask a clarifying question instead of repeating the offer.
	if lastBot := lastBotMessage(sess); lastBot != "" && agentOfferPattern.MatchString(lastBot) {
		return DialogueResult{Intent: models.IntentFallback, Reply: replyClarify}
	}
	return DialogueResult{Intent: models.IntentFallback, Reply: replyFallbackOffer}
}

// buildAnswerFromKB attempts a knowledge-backed reply for any intent.
// Returns "" when the KB offers nothing for this turn.
func (e *DialogueEngine) buildAnswerFromKB(intent string, kb *models.KnowledgeBase, graph *KnowledgeGraph, sess *models.Session) string {
	if kb == nil || graph == nil || len(kb.Pages) == 0 {
		return ""
	}

	lastPath := ""
	if sess != nil {
		lastPath = sess.LastPath
	}
	current := currentPage(kb, lastPath)

	switch intent {
	case models.IntentProducts:
		// Prefer pages grouped with the current one via same-section edges
		var links []string
		for _, n := range graph.Neighbors(current.URL, RelationSameSection) {
			links = append(links, markdownLink(n.Node.Title, n.URL))
		}
		if len(links) == 0 {
			for _, p := range kb.Pages {
				links = append(links, markdownLink(p.Title, p.URL))
			}
		}
		if len(links) > 3 {
			links = links[:3]
		}
		return fmt.Sprintf("We offer a range of agricultural machines. You can explore here: %s. Which product are you interested in?", strings.Join(links, ", "))

	case models.IntentContact:
		contactPage := current
		found := false
		for i := range kb.Pages {
			if contactPagePattern.MatchString(kb.Pages[i].Title) {
				contactPage = &kb.Pages[i]
				found = true
				break
			}
		}
		if !found {
			contactPage = &kb.Pages[0]
		}
		return fmt.Sprintf("You can reach us at +91 7726017648 or ratanagritech@gmail.com. More details: %s", contactPage.URL)

	case models.IntentFallback:
		return retrieveByQueryTerms(kb, lastPath)
	}

	return ""
}

// retrieveByQueryTerms scores KB pages by keyword overlap with the query
// string of the session's last visited route.
func retrieveByQueryTerms(kb *models.KnowledgeBase, lastPath string) string {
	parsed, err := url.Parse(lastPath)
	if err != nil || parsed.RawQuery == "" {
		return ""
	}

	var terms []string
	for _, t := range queryTermPattern.Split(strings.ToLower(parsed.RawQuery), -1) {
		if t != "" {
			terms = append(terms, t)
		}
	}
	if len(terms) == 0 {
		return ""
	}

	type scoredPage struct {
		page  *models.Page
		score int
	}
	var scored []scoredPage
	for i := range kb.Pages {
		p := &kb.Pages[i]
		text := strings.ToLower(p.Title + " " + p.Content)
		score := 0
		for _, t := range terms {
			if strings.Contains(text, t) {
				score++
			}
		}
		if score > 0 {
			scored = append(scored, scoredPage{page: p, score: score})
		}
	}
	if len(scored) == 0 {
		return ""
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if len(scored) > 3 {
		scored = scored[:3]
	}

	links := make([]string, 0, len(scored))
	for _, sp := range scored {
		links = append(links, markdownLink(sp.page.Title, sp.page.URL))
	}
	return fmt.Sprintf("Here are relevant pages I found: %s.", strings.Join(links, ", "))
}

// currentPage resolves the KB page matching the session's last client-side
// route, falling back to the first page ("home").
func currentPage(kb *models.KnowledgeBase, lastPath string) *models.Page {
	home := &kb.Pages[0]
	if lastPath == "" {
		return home
	}

	target, err := url.Parse(lastPath)
	if err != nil {
		return home
	}

	for i := range kb.Pages {
		pageURL, err := url.Parse(kb.Pages[i].URL)
		if err != nil {
			continue
		}
		if pageURL.Path == target.Path {
			return &kb.Pages[i]
		}
	}
	return home
}

func markdownLink(title, target string) string {
	if title == "" {
		return target
	}
	return fmt.Sprintf("[%s](%s)", title, target)
}

// lastBotMessage scans history from the end for the most recent bot turn.
func lastBotMessage(sess *models.Session) string {
	if sess == nil {
		return ""
	}
	for i := len(sess.History) - 1; i >= 0; i-- {
		if sess.History[i].Role == models.RoleBot {
			return sess.History[i].Text
		}
	}
	return ""
}
