package gui

import (
	"cmp"
	"context"
	"fmt"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/FlagBrew/local-dex/internal/catalog"
	"github.com/FlagBrew/local-dex/internal/database"
	"github.com/FlagBrew/local-dex/internal/models"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

var blackListedChars = []rune{
	'\'', '$', '%', '@', '#', '!', ';', ':', '/', '*', '?', '|', '>', '<', '&', '\\',
}

const formHelp = "[red]ESC - exit[-:-:-:-] [yellow] Enter - next input/submit [orange] (Shift+)Tab - switch inputs"

func portAccept(textToCheck string, lastChar rune) bool {
	if !unicode.IsDigit(lastChar) {
		return false
	}
	num, _ := strconv.Atoi(textToCheck)
	return num > 0 && num <= 65535
}

func numberAccept(textToCheck string, lastChar rune) bool {
	return unicode.IsDigit(lastChar) && len(textToCheck) <= 4
}

func showErrors(frame *tview.Frame, errors []string) {
	frame.AddText("Errors: ", true, tview.AlignLeft, tcell.ColorYellow)
	for _, v := range errors {
		frame.AddText(v, true, tview.AlignLeft, tcell.ColorRed)
	}
}

func (g *Gui) databaseConfigPage(p *tview.Pages, dbType string) tview.Primitive {
	form := tview.NewForm()

	existing := ""
	if g.config.Database.DBType == dbType {
		existing = g.config.Database.ConnectionString
	}
	values := connectionFields(dbType, existing)

	switch dbType {
	case "sqlite":
		form.AddInputField("File Name", values[0], 20, func(textToCheck string, lastChar rune) bool {
			return !slices.Contains(blackListedChars, lastChar)
		}, func(text string) {
			values[0] = text
		})
	case "mysql", "postgres":
		form.AddInputField(serverFields[0], values[0], 20, nil, func(text string) {
			values[0] = text
		})
		form.AddPasswordField(serverFields[1], values[1], 20, '*', func(text string) {
			values[1] = text
		})
		form.AddInputField(serverFields[2], values[2], 20, nil, func(text string) {
			values[2] = text
		})
		form.AddInputField(serverFields[3], values[3], 20, portAccept, func(text string) {
			values[3] = text
		})
		form.AddInputField(serverFields[4], values[4], 20, nil, func(text string) {
			values[4] = text
		})
	}

	frame := tview.NewFrame(form)
	frame.SetBorder(true)
	frame.SetTitle(fmt.Sprintf("Local Dex - Configuring Database: %s", dbType))
	drawHelp := func() {
		frame.Clear()
		frame.AddText("Please fill out the form below with the connection details of your database", true, tview.AlignLeft, tcell.ColorYellow)
		frame.AddText(formHelp, false, tview.AlignLeft, tcell.ColorYellow)
	}
	drawHelp()

	form.AddButton("Submit", func() {
		drawHelp()

		connectionString, err := buildConnectionString(dbType, values)
		if err != nil {
			showErrors(frame, []string{err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		store, err := database.Open(ctx, dbType, connectionString)
		if err != nil {
			showErrors(frame, []string{"Connection error: " + err.Error()})
			return
		}
		_ = store.Close()

		g.config.Database = models.DatabaseConfig{
			DBType:           dbType,
			ConnectionString: connectionString,
		}
		p.SwitchToPage("seed")
	})

	return frame
}

func (g *Gui) seedFilePage(p *tview.Pages) tview.Primitive {
	form := tview.NewForm()
	frame := tview.NewFrame(form)

	path := g.config.Misc.SeedFile
	drawHelp := func() {
		frame.Clear()
		frame.AddText("Enter the path of the catalog JSON file to import", true, tview.AlignLeft, tcell.ColorYellow)
		frame.AddText(formHelp, false, tview.AlignLeft, tcell.ColorYellow)
	}
	drawHelp()

	form.AddInputField("File", path, 40, nil, func(text string) {
		path = text
	})
	form.AddButton("Submit", func() {
		drawHelp()

		info, err := os.Stat(path)
		switch {
		case path == "":
			showErrors(frame, []string{"File: is required"})
			return
		case err != nil:
			showErrors(frame, []string{"File: " + err.Error()})
			return
		case info.IsDir():
			showErrors(frame, []string{"File: is a directory"})
			return
		}

		g.config.Misc.SeedCatalog = true
		g.config.Misc.SeedFile = path
		g.config.Misc.SeedURL = ""
		p.AddPage("http-config", g.httpConfigPage(p), true, false)
		p.SwitchToPage("http-config")
	})

	frame.SetBorder(true)
	frame.SetTitle("Local Dex - Import Catalog File")
	return frame
}

func (g *Gui) httpConfigPage(p *tview.Pages) tview.Primitive {
	form := tview.NewForm()
	frame := tview.NewFrame(form)

	chosenAddr := "0.0.0.0"
	chosenPort := "8080"

	if g.config.HTTP.ListeningAddr != "" {
		chosenAddr = g.config.HTTP.ListeningAddr
	}

	if g.config.HTTP.Port != 0 {
		chosenPort = strconv.Itoa(g.config.HTTP.Port)
	}

	defaultFrameDraw := func() {
		frame.Clear()
		frame.AddText("Please fill out the form below, with the address Local Dex should listen on", true, tview.AlignLeft, tcell.ColorYellow)
		frame.AddText(formHelp, false, tview.AlignLeft, tcell.ColorYellow)
		if chosenAddr == "127.0.0.1" || chosenAddr == "localhost" || chosenAddr == "::1" {
			frame.AddText(fmt.Sprintf("Using %s (localhost) is only recommended if running Docker", chosenAddr), true, tview.AlignLeft, tcell.ColorRed)
		}
	}

	defaultFrameDraw()
	availableAddresses := []string{"0.0.0.0"}

	ipHelpText := `
When selecting the listening address, 0.0.0.0 will have Local Dex listen on all IP addresses bound to your computer.
For most users that is perfectly fine, as your system's IP address is likely dynamic and will change after a period of time.

Advanced users may bind to a specific IP address by choosing it from the dropdown list.
If the IP assignment changes, you will need to update the configuration file.
`

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		ipHelpText = fmt.Sprintf(`The IPs assigned to your machine could not be listed, Local Dex will listen on 0.0.0.0 (all interfaces)
Error info: %s
`, err.Error())
	} else {
		for _, address := range addrs {
			if strings.HasPrefix(address.String(), "fe80") {
				continue
			}
			availableAddresses = append(availableAddresses, strings.Split(address.String(), "/")[0])
		}
	}

	index := slices.Index(availableAddresses, chosenAddr)
	if index == -1 {
		index = 0
	}

	form.AddTextView("IP Info", ipHelpText, 0, 0, true, true)
	form.AddDropDown("Listening Address", availableAddresses, index, func(option string, optionIndex int) {
		chosenAddr = availableAddresses[optionIndex]
		defaultFrameDraw()
	})
	form.AddTextView("Port Info", `When choosing the port, keep in mind the following:
1. the port must be between 1 and 65535
2. on certain platforms (such as Linux), ports 1-1023 are "privileged ports", meaning you need to be running the server as root [::b](STRONGLY NOT RECOMMENDED)[-:-:-:-] to bind to them.
The default port (8080) should be good for most users, if it's in use, try incrementing it.`, 0, 0, true, true)
	form.AddInputField("Port", chosenPort, 20, portAccept, func(text string) {
		chosenPort = text
	})

	form.AddButton("Submit", func() {
		defaultFrameDraw()
		if chosenPort == "" {
			showErrors(frame, []string{"Port: Please enter a valid port number"})
			return
		}

		l, err := net.Listen("tcp", net.JoinHostPort(chosenAddr, chosenPort))
		if err != nil {
			showErrors(frame, []string{err.Error()})
			return
		}
		l.Close()

		port, _ := strconv.Atoi(chosenPort)
		g.config.HTTP = models.HTTPConfig{
			ListeningAddr: chosenAddr,
			Port:          port,
		}

		p.AddPage("catalog-config", g.catalogConfigPage(p), true, false)
		p.SwitchToPage("catalog-config")
	})

	frame.SetBorder(true)
	frame.SetTitle("Local Dex - Configuring HTTP")

	return frame
}

func (g *Gui) catalogConfigPage(p *tview.Pages) tview.Primitive {
	form := tview.NewForm()
	frame := tview.NewFrame(form)

	cc := g.config.Catalog
	values := []string{
		strconv.Itoa(cmp.Or(cc.DefaultPageSize, catalog.DefaultPageSize)),
		strconv.Itoa(cmp.Or(cc.MaxPageSize, catalog.MaxPageSize)),
		strconv.Itoa(cmp.Or(cc.MaxChainLength, catalog.DefaultMaxChainLength)),
	}
	labels := []string{"Default page size", "Maximum page size", "Maximum evolution chain length"}

	drawHelp := func() {
		frame.Clear()
		frame.AddText("These limits apply to listing endpoints and evolution lookups. The defaults are fine for most users", true, tview.AlignLeft, tcell.ColorYellow)
		frame.AddText(formHelp, false, tview.AlignLeft, tcell.ColorYellow)
	}
	drawHelp()

	for i, label := range labels {
		form.AddInputField(label, values[i], 10, numberAccept, func(text string) {
			values[i] = text
		})
	}

	form.AddButton("Submit", func() {
		drawHelp()

		var (
			parsed [3]int
			errors []string
		)
		for i, label := range labels {
			n, err := strconv.Atoi(values[i])
			if err != nil || n < 1 {
				errors = append(errors, label+": must be a positive number")
				continue
			}
			parsed[i] = n
		}
		if len(errors) == 0 && parsed[0] > parsed[1] {
			errors = append(errors, "Default page size: must not exceed the maximum page size")
		}
		if len(errors) == 0 && parsed[2] < 2 {
			errors = append(errors, "Maximum evolution chain length: must be at least 2")
		}
		if len(errors) > 0 {
			showErrors(frame, errors)
			return
		}

		g.config.Catalog = models.CatalogConfig{
			DefaultPageSize: parsed[0],
			MaxPageSize:     parsed[1],
			MaxChainLength:  parsed[2],
		}
		p.AddPage("confirm", g.confirmationPage(p), true, false)
		p.SwitchToPage("confirm")
	})

	frame.SetBorder(true)
	frame.SetTitle("Local Dex - Catalog Limits")
	return frame
}
