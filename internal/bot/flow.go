package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/maple-advisory/crm-backend/internal/types"
)

// Flow names and the steps within them.
const (
	flowLink    = "link"
	flowNewLead = "newlead"

	stepEmail    = "email"
	stepPassword = "password"

	stepCompany    = "company"
	stepSector     = "sector"
	stepPOC        = "poc"
	stepPhone      = "phone"
	stepLeadEmail  = "lead_email"
	stepSourceType = "source"
	stepNotes      = "notes"
	stepConfirm    = "confirm"
)

const helpText = `Available commands:
/link - link your CRM account
/unlink - unlink this chat
/whoami - show the linked account
/newlead - record a new lead
/myleads - list your active leads
/stats - your lead statistics
/cancel - abandon the current flow`

// Flow routes incoming messages either to a command or to the step an active
// session is waiting on. Replies are plain text for Telegram.
type Flow struct {
	store SessionStore
	api   *APIClient
}

func NewFlow(store SessionStore, api *APIClient) *Flow {
	return &Flow{store: store, api: api}
}

// Handle processes one incoming message and returns the reply to send.
func (f *Flow) Handle(ctx context.Context, chatID int64, platformUserID, text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "/") {
		return f.handleCommand(ctx, chatID, platformUserID, text)
	}

	session, err := f.store.Get(ctx, chatID)
	if err != nil {
		log.Printf("[Bot] Error loading session for chat %d: %v", chatID, err)
		return "Something went wrong, please try again."
	}
	if session == nil {
		return "No active flow. Send /help to see what I can do."
	}

	switch session.Flow {
	case flowLink:
		return f.handleLinkStep(ctx, session, platformUserID, text)
	case flowNewLead:
		return f.handleLeadStep(ctx, session, platformUserID, text)
	default:
		f.store.Delete(ctx, chatID)
		return "No active flow. Send /help to see what I can do."
	}
}

func (f *Flow) handleCommand(ctx context.Context, chatID int64, platformUserID, text string) string {
	cmd := strings.ToLower(strings.Fields(text)[0])
	// Strip a bot mention like /newlead@MapleCRMBot.
	if at := strings.Index(cmd, "@"); at > 0 {
		cmd = cmd[:at]
	}

	switch cmd {
	case "/start", "/help":
		return "Hi! I record leads straight into the Maple CRM.\n\n" + helpText

	case "/cancel":
		f.store.Delete(ctx, chatID)
		return "Cancelled."

	case "/link":
		session := &Session{ChatID: chatID, Flow: flowLink, Step: stepEmail}
		if err := f.store.Put(ctx, session); err != nil {
			return "Something went wrong, please try again."
		}
		return "What is your CRM email address?"

	case "/unlink":
		if err := f.api.Unlink(ctx, platformUserID); err != nil {
			return "Could not unlink: " + err.Error()
		}
		return "This chat is no longer linked."

	case "/whoami":
		user, err := f.api.WhoAmI(ctx, platformUserID)
		if err != nil {
			return "This chat is not linked. Send /link to connect your CRM account."
		}
		return fmt.Sprintf("Linked as %s %s (%s)", user.FirstName, user.LastName, user.Email)

	case "/newlead":
		if _, err := f.api.WhoAmI(ctx, platformUserID); err != nil {
			return "This chat is not linked. Send /link to connect your CRM account first."
		}
		session := &Session{ChatID: chatID, Flow: flowNewLead, Step: stepCompany}
		if err := f.store.Put(ctx, session); err != nil {
			return "Something went wrong, please try again."
		}
		return "Let's record a new lead. What is the company name?"

	case "/myleads":
		leads, err := f.api.MyLeads(ctx, platformUserID)
		if err != nil {
			return "Could not fetch your leads: " + err.Error()
		}
		if len(leads) == 0 {
			return "You have no active leads."
		}
		var b strings.Builder
		b.WriteString("Your active leads:\n")
		for _, lead := range leads {
			fmt.Fprintf(&b, "- %s (%s)\n", lead.CompanyName, lead.Status)
		}
		return b.String()

	case "/stats":
		stats, err := f.api.MyStats(ctx, platformUserID)
		if err != nil {
			return "Could not fetch your stats: " + err.Error()
		}
		return fmt.Sprintf("Total leads: %d\nConverted: %d\nAdded this month: %d",
			stats.Total, stats.Converted, stats.ThisMonth)

	default:
		return "Unknown command.\n\n" + helpText
	}
}

func (f *Flow) handleLinkStep(ctx context.Context, session *Session, platformUserID, text string) string {
	switch session.Step {
	case stepEmail:
		session.Email = text
		session.Step = stepPassword
		f.store.Put(ctx, session)
		return "And your CRM password? (the message is only used to verify, never stored)"

	case stepPassword:
		email := session.Email
		f.store.Delete(ctx, session.ChatID)

		resp, err := f.api.Link(ctx, platformUserID, email, text)
		if err != nil {
			return "Linking failed: " + err.Error() + "\nSend /link to try again."
		}
		return fmt.Sprintf("Linked! You are %s %s. Send /newlead to record a lead.",
			resp.User.FirstName, resp.User.LastName)

	default:
		f.store.Delete(ctx, session.ChatID)
		return "Something went wrong, send /link to start over."
	}
}

func (f *Flow) handleLeadStep(ctx context.Context, session *Session, platformUserID, text string) string {
	skip := strings.EqualFold(text, "skip")

	switch session.Step {
	case stepCompany:
		if skip || text == "" {
			return "Company name is required. What is it?"
		}
		session.Draft.CompanyName = text
		session.Step = stepSector
		f.store.Put(ctx, session)
		return "Which sector? (or 'skip')"

	case stepSector:
		if !skip {
			session.Draft.Sector = text
		}
		session.Step = stepPOC
		f.store.Put(ctx, session)
		return "Who is the point of contact? (or 'skip')"

	case stepPOC:
		if !skip {
			session.Draft.ClientPOC = text
		}
		session.Step = stepPhone
		f.store.Put(ctx, session)
		return "Contact phone number? (or 'skip')"

	case stepPhone:
		if !skip {
			session.Draft.PhoneNumber = text
		}
		session.Step = stepLeadEmail
		f.store.Put(ctx, session)
		return "Contact email? (or 'skip')"

	case stepLeadEmail:
		if !skip {
			session.Draft.EmailID = text
		}
		session.Step = stepSourceType
		f.store.Put(ctx, session)
		return "Is this lead Inbound or Outbound? (or 'skip')"

	case stepSourceType:
		if !skip {
			normalized := normalizeSource(text)
			if normalized == "" {
				return "Please answer Inbound or Outbound (or 'skip')."
			}
			session.Draft.SourceType = normalized
		}
		session.Step = stepNotes
		f.store.Put(ctx, session)
		return "Any notes? (or 'skip')"

	case stepNotes:
		if !skip {
			session.Draft.Notes = text
		}
		session.Step = stepConfirm
		f.store.Put(ctx, session)
		return draftSummary(session.Draft) + "\n\nSave this lead? (yes/no)"

	case stepConfirm:
		if strings.EqualFold(text, "no") || strings.EqualFold(text, "n") {
			f.store.Delete(ctx, session.ChatID)
			return "Discarded."
		}
		if !strings.EqualFold(text, "yes") && !strings.EqualFold(text, "y") {
			return "Please answer yes or no."
		}

		draft := session.Draft
		f.store.Delete(ctx, session.ChatID)

		lead, err := f.api.CreateLead(ctx, platformUserID, draft)
		if err != nil {
			return "Could not save the lead: " + err.Error()
		}
		return fmt.Sprintf("Saved! %s is now in the pipeline as %s.", lead.CompanyName, lead.Status)

	default:
		f.store.Delete(ctx, session.ChatID)
		return "Something went wrong, send /newlead to start over."
	}
}

func normalizeSource(text string) string {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "inbound", "in":
		return types.SourceInbound
	case "outbound", "out":
		return types.SourceOutbound
	default:
		return ""
	}
}

func draftSummary(d LeadDraft) string {
	var b strings.Builder
	b.WriteString("Here is what I have:\n")
	fmt.Fprintf(&b, "Company: %s\n", d.CompanyName)
	if d.Sector != "" {
		fmt.Fprintf(&b, "Sector: %s\n", d.Sector)
	}
	if d.ClientPOC != "" {
		fmt.Fprintf(&b, "Contact: %s\n", d.ClientPOC)
	}
	if d.PhoneNumber != "" {
		fmt.Fprintf(&b, "Phone: %s\n", d.PhoneNumber)
	}
	if d.EmailID != "" {
		fmt.Fprintf(&b, "Email: %s\n", d.EmailID)
	}
	if d.SourceType != "" {
		fmt.Fprintf(&b, "Source: %s\n", d.SourceType)
	}
	if d.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", d.Notes)
	}
	return strings.TrimRight(b.String(), "\n")
}
