package gui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

func (g *Gui) introPage(p *tview.Pages) tview.Primitive {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	textView.SetText(`Welcome to Local Dex, a self-hosted Pokemon catalog.

This wizard will walk you through setting up your configuration. Everything chosen here is written to config.json and can be changed later, either in the file or through DEX_* environment variables.

[::b]It is strongly recommended that you maximize this terminal window to avoid text being cut-off[-:-:-:-]

If you would like to exit the wizard early, please press the [red]esc key[-:-:-:-], otherwise please press [yellow]enter[-:-:-:-] to continue

`)

	textView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter:
			p.SwitchToPage("database-type")
		}
		return event
	})

	frame := tview.NewFrame(textView)
	frame.AddText("[red]ESC - exit[-:-:-:-] [yellow] Enter - continue", false, tview.AlignLeft, tcell.ColorYellow)
	frame.SetBorder(true).SetTitle("Local Dex")
	return frame
}

func (g *Gui) seedDescription() string {
	switch {
	case !g.config.Misc.SeedCatalog:
		return "Start with an empty catalog"
	case g.config.Misc.SeedFile != "":
		return "Import " + g.config.Misc.SeedFile
	case g.config.Misc.SeedURL != "":
		return "Import " + g.config.Misc.SeedURL
	default:
		return "Import the starter catalog"
	}
}

func (g *Gui) confirmationPage(p *tview.Pages) tview.Primitive {
	form := tview.NewForm()

	form.AddTextView("Database Settings", describeConnection(g.config.Database.DBType, g.config.Database.ConnectionString), 0, 0, true, true)
	form.AddTextView("HTTP Settings", fmt.Sprintf(`Listening Address: %s
Listening Port: %d
`, g.config.HTTP.ListeningAddr, g.config.HTTP.Port), 0, 0, true, true)
	form.AddTextView("Catalog Limits", fmt.Sprintf(`Page Size: %d (max %d)
Max Evolution Chain: %d
`, g.config.Catalog.DefaultPageSize, g.config.Catalog.MaxPageSize, g.config.Catalog.MaxChainLength), 0, 0, true, true)
	form.AddTextView("Import Options", g.seedDescription(), 0, 0, true, true)

	form.AddButton("Save", func() {
		g.Stop()
	})
	form.AddButton("Edit", func() {
		p.SwitchToPage("database-type")
	})

	frame := tview.NewFrame(form)
	frame.AddText("Please review the details below, and if all is good, press enter on the save button, otherwise, press the edit button to go back to the first page (with your data saved of course)", true, tview.AlignLeft, tcell.ColorYellow)
	frame.AddText("[red]ESC - exit[-:-:-:-] [yellow] Enter - submit [orange] (Shift+)Tab - switch buttons", false, tview.AlignLeft, tcell.ColorYellow)
	frame.SetBorder(true)
	frame.SetTitle("Local Dex - Settings Review")

	return frame
}
