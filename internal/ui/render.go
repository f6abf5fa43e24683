package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/azfin-hq/azfinnews/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Package ui renders the interactive screens. All functions return strings;
// the session decides where they go.

var asciiBanner = []string{
	`       d8888           .d888 d8b`,
	`      d88888          d88P"  Y8P`,
	`     d88P888          888`,
	`    d88P 888 88888888 888888 888 88888b.  88888b.   .d88b.  888  888  888 .d8888b`,
	`   d88P  888    d88P  888    888 888 "88b 888 "88b d8P  Y8b 888  888  888 88K`,
	`  d88P   888   d88P   888    888 888  888 888  888 88888888 888  888  888 "Y8888b.`,
	` d8888888888  d88P    888    888 888  888 888  888 Y8b.     Y88b 888 d88P      X88`,
	`d88P     888 88888888 888    888 888  888 888  888  "Y8888   "Y8888888P"   88888P'`,
}

const maxBodyRunes = 20000

// Banner renders the ASCII header with its subtitle.
func Banner() string {
	var lines []string
	for _, l := range asciiBanner {
		lines = append(lines, bannerStyle.Render(l))
	}
	lines = append(lines, subtitleStyle.Render("Actual Financial News of Azerbaijan"))
	return strings.Join(lines, "\n")
}

// Welcome renders the welcome screen shown at startup and on `home`.
func Welcome() string {
	body := strings.Join([]string{
		infoStyle.Render("Welcome to AzFinNews!"),
		"",
		"Live updates from the APA.az Economy section.",
		"New articles are collected in the background and kept for a week.",
		"",
		commandReference(),
		"",
		hintStyle.Render("The collector refreshes automatically; press Enter to load the news."),
	}, "\n")
	return Banner() + "\n" + panelStyle.Render(body)
}

// Help renders the command reference panel shown on `help`.
func Help() string {
	return panelStyle.Render(commandReference())
}

func commandReference() string {
	return strings.Join([]string{
		headerCellStyle.Render("Available commands:"),
		"  " + titleCellStyle.Render("list") + "        show the latest news (page 1)",
		"  " + titleCellStyle.Render("read <n>") + "    open the full article text by number",
		"  " + titleCellStyle.Render("turn <page>") + " browse older pages",
		"  " + titleCellStyle.Render("home") + "        return to the welcome screen",
		"  " + titleCellStyle.Render("help") + "        show this reference",
		"  " + titleCellStyle.Render("quit") + "        exit safely",
	}, "\n")
}

// Listing renders the article table for the given page.
func Listing(articles []domain.Article, page int, now time.Time) string {
	var b strings.Builder
	b.WriteString(Banner())
	b.WriteString("\n")
	b.WriteString(tableTitleStyle.Render(
		fmt.Sprintf("AzFinNews - Page %d - %s", page, now.Format("2006-01-02 15:04:05"))))
	b.WriteString("\n")

	titleWidth := 8
	dateWidth := 11
	for _, a := range articles {
		if w := lipgloss.Width(a.Title); w > titleWidth {
			titleWidth = w
		}
		if w := lipgloss.Width(a.DisplayDate); w > dateWidth {
			dateWidth = w
		}
	}
	if titleWidth > 80 {
		titleWidth = 80
	}

	// Pad through lipgloss so ANSI codes and wide runes do not skew columns.
	b.WriteString(headerCellStyle.Render(
		padCell("No.", 4) + "  " + padCell("Title", titleWidth) + "  " +
			padCell("Time & Date", dateWidth) + "  Source"))
	b.WriteString("\n")
	if len(articles) == 0 {
		b.WriteString(hintStyle.Render("  (no articles yet - the collector is still looking)"))
		b.WriteString("\n")
	}
	for i, a := range articles {
		b.WriteString(indexCellStyle.Render(padCell(fmt.Sprintf("%d", i+1), 4)))
		b.WriteString("  ")
		b.WriteString(titleCellStyle.Render(padCell(truncate(a.Title, titleWidth), titleWidth)))
		b.WriteString("  ")
		b.WriteString(dateCellStyle.Render(padCell(a.DisplayDate, dateWidth)))
		b.WriteString("  ")
		b.WriteString(sourceCellStyle.Render(a.Source))
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render("Commands: list | read <n> | turn <page> | home | help | quit"))
	return b.String()
}

// Article renders the reading pane for one article.
func Article(article domain.Article, body string) string {
	if runes := []rune(body); len(runes) > maxBodyRunes {
		body = string(runes[:maxBodyRunes])
	}

	header := strings.Join([]string{
		titleCellStyle.Render(article.Title),
		dateCellStyle.Render(article.DisplayDate) + " | " + sourceCellStyle.Render(article.Source),
		hintStyle.Render(article.Link),
	}, "\n")

	pane := panelStyle.Width(110).Render(header + "\n\n" + body)
	return Banner() + "\n" + pane + "\n" + infoStyle.Render("Press Enter to return")
}

// Info, Warn, and Err render one-line notices.
func Info(msg string) string { return infoStyle.Render(msg) }
func Warn(msg string) string { return warnStyle.Render(msg) }
func Err(msg string) string  { return errStyle.Render(msg) }

func padCell(s string, width int) string {
	if pad := width - lipgloss.Width(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
