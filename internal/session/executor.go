package session

import (
	"context"
	"fmt"

	"wikibot/internal/command"
	"wikibot/internal/history"
	"wikibot/internal/irc"
	"wikibot/internal/metrics"
	"wikibot/util"
)

// Executor interprets a command.Plan.  Outbound directives go to Out
// in plan order; state changes are applied to State at the point the
// plan lists them.
type Executor struct {
	Out      irc.LineWriter
	State    *State
	Articles ArticleSource
	History  history.Recorder
	LinkBase string
	Metrics  *metrics.Collector
	Logger   *util.Logger
}

// Execute runs plan.  Only write failures are returned; they end the
// session.  Article and history failures are logged and recovered.
// Once the session stops, remaining intents are dropped.
func (e *Executor) Execute(ctx context.Context, plan command.Plan) error {
	for _, in := range plan {
		if !e.State.Alive {
			return nil
		}
		if err := e.apply(ctx, in); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) apply(ctx context.Context, in command.Intent) error {
	switch in := in.(type) {
	case command.Say:
		return e.send(irc.Privmsg(in.Target, in.Text))
	case command.Help:
		return e.help(in.Target)
	case command.PostArticles:
		return e.postArticles(ctx, in)
	case command.Rename:
		e.State.Nickname = in.Nick
		return e.send(irc.Nick(in.Nick))
	case command.SwitchChannel:
		e.Logger.Info("moving from %s to %s", e.State.Channel, in.Channel)
		e.State.Channel = in.Channel
		e.Metrics.ChannelMigrated()
	case command.Join:
		return e.send(irc.Join(in.Channel))
	case command.Part:
		return e.send(irc.Part(in.Channel))
	case command.Invite:
		return e.send(irc.Invite(in.Nick, in.Channel))
	case command.Quit:
		return e.send(irc.Quit(in.Message))
	case command.CloseHistory:
		if e.History == nil {
			return nil
		}
		if err := e.History.Close(); err != nil {
			e.Logger.Warn("closing history: %v", err)
		}
	case command.Stop:
		e.State.Alive = false
	default:
		return fmt.Errorf("unknown intent %T", in)
	}
	return nil
}

func (e *Executor) help(target string) error {
	for _, line := range command.HelpLines() {
		if err := e.send(irc.Privmsg(target, line)); err != nil {
			return err
		}
	}
	return nil
}

// postArticles posts one link per fetched title, recording each link
// before it is sent.  A failed fetch sends the help block instead.
func (e *Executor) postArticles(ctx context.Context, in command.PostArticles) error {
	if e.Articles == nil {
		return e.help(in.Target)
	}
	titles, err := e.Articles.RandomTitles(ctx, in.Count)
	if err != nil {
		e.Logger.Warn("fetching %d article(s): %v", in.Count, err)
		e.Metrics.ArticleFailure(err.Error())
		return e.help(in.Target)
	}

	for _, title := range titles {
		link := command.Link(e.LinkBase, title)
		if e.History != nil {
			if err := e.History.Record(link); err != nil {
				e.Logger.Warn("recording %s: %v", link, err)
			}
		}
		if err := e.send(irc.Privmsg(in.Target, link)); err != nil {
			return err
		}
		e.Metrics.ArticlePosted()
	}
	return nil
}

func (e *Executor) send(d irc.Directive) error {
	line := d.String()
	if err := e.Out.WriteLine(line); err != nil {
		return err
	}
	e.Logger.Verbose("> %s", line)
	return nil
}
