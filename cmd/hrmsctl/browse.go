package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hrms-portal/internal/pkg/pagination"
)

// pager is the part of client.ListView the browse loop drives.
type pager interface {
	Controller() *pagination.Controller
	Refresh()
	Wait()
	Close()
}

// runBrowse feeds stdin lines to the view until EOF or :q. On exit the
// pending search is flushed and its page printed before the view closes.
func runBrowse(in io.Reader, out io.Writer, view pager) error {
	defer view.Close()

	c := view.Controller()
	view.Refresh()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()

		if !strings.HasPrefix(line, ":") {
			c.SetSearch(strings.TrimSpace(line))
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case ":n":
			c.NextPage()
		case ":p":
			c.PrevPage()
		case ":s":
			if len(fields) != 2 {
				fmt.Fprintln(out, "usage: :s N")
				continue
			}
			size, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Fprintln(out, "page size must be a number")
				continue
			}
			if err := c.SetPageSize(size); err != nil {
				fmt.Fprintln(out, err)
			}
		case ":q":
			c.FlushSearch()
			view.Wait()
			return nil
		default:
			fmt.Fprintf(out, "unknown command %s\n", fields[0])
		}
	}

	c.FlushSearch()
	view.Wait()
	return scanner.Err()
}
