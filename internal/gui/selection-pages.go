package gui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

func (g *Gui) databaseSelection(p *tview.Pages) tview.Primitive {
	list := tview.NewList()

	list.AddItem("sqlite", "Easiest to use, creates a database file on disk, good if running for yourself only, [::b]if you have no experience with databases, use this option", '1', func() {
		p.AddPage("db-config", g.databaseConfigPage(p, "sqlite"), true, false)
		p.SwitchToPage("db-config")
	})
	list.AddItem("MySql", "Requires a running instance of a MySql database, recommended if sharing Local Dex with others", '2', func() {
		p.AddPage("db-config", g.databaseConfigPage(p, "mysql"), true, false)
		p.SwitchToPage("db-config")
	})
	list.AddItem("Postgres", "Requires a running instance of a Postgres database, recommended if sharing Local Dex with others", '3', func() {
		p.AddPage("db-config", g.databaseConfigPage(p, "postgres"), true, false)
		p.SwitchToPage("db-config")
	})
	list.AddItem("memory", "Keeps the catalog in memory only, [::b]everything is lost when Local Dex stops[-:-:-:-]. Useful for trying things out", '4', func() {
		g.config.Database.DBType = "memory"
		g.config.Database.ConnectionString = ""
		p.SwitchToPage("seed")
	})

	frame := tview.NewFrame(list)
	frame.SetBorder(true)
	frame.SetTitle("Local Dex - Choosing Database")
	frame.AddText("Please select below what database you would like to use for Local Dex", true, tview.AlignLeft, tcell.ColorYellow)
	frame.AddText("[red]ESC - exit[-:-:-:-] [yellow] Enter - continue", false, tview.AlignLeft, tcell.ColorYellow)
	return frame
}

func (g *Gui) seedSelection(p *tview.Pages) tview.Primitive {
	list := tview.NewList()
	next := func() {
		p.AddPage("http-config", g.httpConfigPage(p), true, false)
		p.SwitchToPage("http-config")
	}

	list.AddItem("Starter catalog", "Imports the bundled catalog: the common types plus a handful of well known Pokemon and their evolutions", '1', func() {
		g.config.Misc.SeedCatalog = true
		g.config.Misc.SeedFile = ""
		g.config.Misc.SeedURL = ""
		next()
	})
	list.AddItem("Import a file", "Imports a catalog JSON file from disk on the first start", '2', func() {
		p.AddPage("seed-file", g.seedFilePage(p), true, false)
		p.SwitchToPage("seed-file")
	})
	list.AddItem("No", "You will start with a fresh empty catalog", '3', func() {
		g.config.Misc.SeedCatalog = false
		g.config.Misc.SeedFile = ""
		g.config.Misc.SeedURL = ""
		next()
	})

	frame := tview.NewFrame(list)
	frame.SetBorder(true)
	frame.SetTitle("Local Dex - Import Catalog")
	frame.AddText("Would you like Local Dex to fill the catalog when it starts for the first time?", true, tview.AlignLeft, tcell.ColorYellow)
	frame.AddText("[red]ESC - exit[-:-:-:-] [yellow] Enter - continue", false, tview.AlignLeft, tcell.ColorYellow)
	return frame
}
