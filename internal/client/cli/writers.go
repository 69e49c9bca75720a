package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
)

func (a *App) Writers(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	list, err := a.client.ListWriters(ctx)
	if err != nil {
		return a.sessionError(err)
	}
	if len(list) == 0 {
		a.printf("No writers\n")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED")
	for _, w := range list {
		fmt.Fprintf(tw, "%s\t%s\n", w.ID, w.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (a *App) AddWriter(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "New writer ID", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	w, err := a.client.RegisterWriter(ctx, id, string(password))
	if err != nil {
		return a.sessionError(err)
	}
	a.printf("Writer %s registered\n", w.ID)
	return nil
}

func (a *App) RemoveWriter(ctx context.Context, id string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.RemoveWriter(ctx, id); err != nil {
		return a.sessionError(err)
	}
	a.printf("Writer %s and their books removed\n", id)
	return nil
}
