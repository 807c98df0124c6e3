// chorectl is a terminal client for a choreboard server. It keeps a local
// cache of the household's chores and derives list and calendar views from
// it, so every command works off the same state the web UI would see.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"choreboard/internal/cache"
	"choreboard/internal/gateway"
	"choreboard/internal/model"
	"choreboard/internal/syncer"
	"choreboard/internal/view"
)

const usageText = `usage: chorectl [-server URL] <command> [args]

commands:
  list [-filter all|pending|completed]   show chores, completed last
  calendar                               show chores as calendar events
  add -title T -due YYYY-MM-DD [-desc D] [-assign USER_ID] [-priority P]
  done <id>                              mark a chore completed
  start <id>                             mark a chore in progress
  rm <id>                                delete a chore
  move <from> <to>                       reorder the list by position (1-based)
  reschedule <id> <YYYY-MM-DD>           move a chore to a new due date
  users                                  list household members
  useradd -name N [-email E]             add a household member
`

type app struct {
	sync  *syncer.Syncer
	cache *cache.Cache
	gw    *gateway.Client
}

func main() {
	serverURL := flag.String("server", defaultServer(), "choreboard server URL")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usageText) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	gw := gateway.NewClient(*serverURL)
	c := cache.New()
	a := &app{sync: syncer.New(gw, c, logger), cache: c, gw: gw}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch cmd := args[0]; cmd {
	case "list":
		err = a.list(ctx, args[1:])
	case "calendar":
		err = a.calendar(ctx)
	case "add":
		err = a.add(ctx, args[1:])
	case "done":
		err = a.setStatus(ctx, args[1:], model.StatusCompleted)
	case "start":
		err = a.setStatus(ctx, args[1:], model.StatusInProgress)
	case "rm":
		err = a.remove(ctx, args[1:])
	case "move":
		err = a.move(ctx, args[1:])
	case "reschedule":
		err = a.reschedule(ctx, args[1:])
	case "users":
		err = a.users(ctx)
	case "useradd":
		err = a.userAdd(ctx, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "chorectl:", err)
		os.Exit(1)
	}
}

func defaultServer() string {
	if url := os.Getenv("CHOREBOARD_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

func (a *app) load(ctx context.Context) error {
	if err := a.sync.LoadChores(ctx); err != nil {
		return err
	}
	return a.sync.LoadUsers(ctx)
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	filter := fs.String("filter", "all", "all, pending or completed")
	fs.Parse(args)

	if err := a.load(ctx); err != nil {
		return err
	}

	chores := view.FilterByStatus(a.cache.Chores(), view.Filter(*filter))
	return a.printChores(view.SortForList(chores, a.sync.Order()))
}

func (a *app) printChores(chores []model.Chore) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tDUE\tSTATUS\tPRIORITY\tASSIGNEE")
	for _, chore := range chores {
		name, _ := view.ResolveAssignedName(chore, a.cache.Users())
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			chore.ID, chore.Title, chore.DueDate, chore.Status, chore.Priority, name)
	}
	return w.Flush()
}

// move reorders by list position. The order lives only for this run; it
// exists so a reorder can be eyeballed against the same view the web
// client derives.
func (a *app) move(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected <from> <to> positions")
	}
	from, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid position %q", args[0])
	}
	to, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid position %q", args[1])
	}

	if err := a.load(ctx); err != nil {
		return err
	}

	order := a.sync.Reorder(a.sync.Order(), from-1, to-1)
	return a.printChores(view.SortForList(a.cache.Chores(), order))
}

func (a *app) calendar(ctx context.Context) error {
	if err := a.sync.LoadChores(ctx); err != nil {
		return err
	}

	events := view.ToCalendarEvents(a.cache.Chores())
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tID\tTITLE\tPRIORITY\tDONE")
	for _, ev := range events {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%v\n", ev.Start, ev.ID, ev.Title, ev.Priority, ev.Completed)
	}
	return w.Flush()
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "chore title")
	due := fs.String("due", "", "due date, YYYY-MM-DD")
	desc := fs.String("desc", "", "description")
	assign := fs.Int64("assign", 0, "assignee user id")
	priority := fs.String("priority", "", "low, medium or high")
	fs.Parse(args)

	dueDate, err := model.ParseDate(*due)
	if *due != "" && err != nil {
		return fmt.Errorf("invalid due date: %w", err)
	}

	payload := model.CreateChore{
		Title:       *title,
		Description: *desc,
		DueDate:     dueDate,
		Priority:    model.Priority(*priority),
	}
	if *assign > 0 {
		payload.AssignedTo = assign
	}

	chore, err := a.sync.Create(ctx, payload)
	if err != nil {
		return err
	}
	fmt.Printf("added chore %d: %s (due %s)\n", chore.ID, chore.Title, chore.DueDate)
	return nil
}

func (a *app) setStatus(ctx context.Context, args []string, status model.Status) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if err := a.sync.LoadChores(ctx); err != nil {
		return err
	}

	chore, err := a.sync.SetStatus(ctx, id, status)
	if err != nil {
		return err
	}
	fmt.Printf("chore %d is now %s\n", chore.ID, chore.Status)
	return nil
}

func (a *app) remove(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if err := a.sync.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Printf("deleted chore %d\n", id)
	return nil
}

func (a *app) reschedule(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected <id> <YYYY-MM-DD>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}
	date, err := model.ParseDate(args[1])
	if err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}
	if err := a.sync.LoadChores(ctx); err != nil {
		return err
	}

	chore, err := a.sync.Reschedule(ctx, id, date)
	if err != nil {
		return err
	}
	fmt.Printf("chore %d moved to %s\n", chore.ID, chore.DueDate)
	return nil
}

func (a *app) users(ctx context.Context) error {
	if err := a.sync.LoadUsers(ctx); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL")
	for _, u := range a.cache.Users() {
		email := ""
		if u.Email != nil {
			email = *u.Email
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", u.ID, u.Name, email)
	}
	return w.Flush()
}

func (a *app) userAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("useradd", flag.ExitOnError)
	name := fs.String("name", "", "member name")
	email := fs.String("email", "", "member email")
	fs.Parse(args)

	payload := model.CreateUser{Name: *name}
	if *email != "" {
		payload.Email = email
	}
	payload, err := model.ValidateUser(payload)
	if err != nil {
		return err
	}

	user, err := a.gw.CreateUser(ctx, payload)
	if err != nil {
		return err
	}
	fmt.Printf("added user %d: %s\n", user.ID, user.Name)
	return nil
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected exactly one chore id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}
