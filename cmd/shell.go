package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/samber/lo"

	"civicstats/internal/analytics"
	"civicstats/internal/types"
)

const menu = `0. Exit the program.
1. Show the available actions.
2. Show the total population for all ZIP Codes.
3. Show the total vaccinations per capita for each ZIP Code for the specified date.
4. Show the average market value for properties in a specified ZIP Code.
5. Show the average total livable area for properties in a specified ZIP Code.
6. Show the total market value of properties, per capita, for a specified ZIP Code.
7. Show the health risk index for a specified ZIP Code.
8. Show the population density for a specified ZIP Code.
`

const prompt = "> "

// console is where the shell reads answers and writes results.
type console interface {
	io.Writer
	ReadLine(prompt string) (string, error)
}

// lineConsole reads newline-terminated input, for pipes and redirected files.
type lineConsole struct {
	r *bufio.Reader
	w io.Writer
}

func newLineConsole(r io.Reader, w io.Writer) *lineConsole {
	return &lineConsole{r: bufio.NewReader(r), w: w}
}

func (c *lineConsole) Write(p []byte) (int, error) { return c.w.Write(p) }

func (c *lineConsole) ReadLine(prompt string) (string, error) {
	if _, err := io.WriteString(c.w, prompt); err != nil {
		return "", err
	}
	line, err := c.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

type shell struct {
	engine *analytics.Engine
	con    console
	log    *slog.Logger
}

func newShell(engine *analytics.Engine, con console, log *slog.Logger) *shell {
	return &shell{engine: engine, con: con, log: log}
}

// run shows the menu and serves actions until 0 or end of input.
func (s *shell) run() error {
	fmt.Fprint(s.con, menu)
	for {
		input, err := s.con.ReadLine(prompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if len(input) != 1 || input[0] < '0' || input[0] > '8' {
			fmt.Fprintln(s.con, "Invalid input. Please enter a number between 0 and 8.")
			continue
		}
		if input == "0" {
			return nil
		}

		err = s.dispatch(input[0] - '0')
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprint(s.con, menu)
	}
}

func (s *shell) dispatch(action byte) error {
	e := s.engine
	switch action {
	case 1:
		s.output(s.availableActions()...)

	case 2:
		if !e.HasPopulationData() {
			s.output("Population data not available.")
			return nil
		}
		s.output(fmt.Sprint(e.TotalPopulation()))

	case 3:
		if !e.HasVaccinationData() || !e.HasPopulationData() {
			s.output("Vaccination or population data not available.")
			return nil
		}
		kind, err := s.askKind()
		if err != nil {
			return err
		}
		date, err := s.askDate()
		if err != nil {
			return err
		}
		lines := formatByZip(e.VaccinationPerCapita(kind, date))
		if len(lines) == 0 {
			lines = []string{"0"}
		}
		s.output(lines...)

	case 4, 5:
		if !e.HasPropertyData() {
			s.output("Property data not available.")
			return nil
		}
		zip, err := s.askZip()
		if err != nil {
			return err
		}
		metric := analytics.MarketValue
		if action == 5 {
			metric = analytics.LivableArea
		}
		s.output(fmt.Sprint(e.Average(metric, zip)))

	case 6:
		if !e.HasPopulationData() || !e.HasPropertyData() {
			s.output("Required data not available.")
			return nil
		}
		zip, err := s.askZip()
		if err != nil {
			return err
		}
		s.output(fmt.Sprint(e.MarketValuePerCapita(zip)))

	case 7:
		if !e.HasPopulationData() || !e.HasPropertyData() || !e.HasVaccinationData() {
			s.output("Required data not available.")
			return nil
		}
		date, err := s.askDate()
		if err != nil {
			return err
		}
		s.output(formatByZip(e.HealthRiskIndex(date))...)

	case 8:
		if !e.HasPopulationData() || !e.HasBoundaryData() {
			s.output("Required data not available.")
			return nil
		}
		zip, err := s.askZip()
		if err != nil {
			return err
		}
		s.output(fmt.Sprintf("%.4f", e.PopulationDensity(zip)))
	}
	return nil
}

func (s *shell) availableActions() []string {
	e := s.engine
	actions := []string{"0", "1"}
	if e.HasPopulationData() {
		actions = append(actions, "2")
	}
	if e.HasVaccinationData() && e.HasPopulationData() {
		actions = append(actions, "3")
	}
	if e.HasPropertyData() {
		actions = append(actions, "4", "5")
	}
	if e.HasPropertyData() && e.HasPopulationData() {
		actions = append(actions, "6")
	}
	if e.HasPropertyData() && e.HasPopulationData() && e.HasVaccinationData() {
		actions = append(actions, "7")
	}
	if e.HasPopulationData() && e.HasBoundaryData() {
		actions = append(actions, "8")
	}
	return actions
}

// output frames result lines for the caller scraping stdout.
func (s *shell) output(lines ...string) {
	fmt.Fprintln(s.con)
	fmt.Fprintln(s.con, "BEGIN OUTPUT")
	for _, l := range lines {
		fmt.Fprintln(s.con, l)
	}
	fmt.Fprintln(s.con, "END OUTPUT")
}

func (s *shell) askKind() (analytics.VaccinationKind, error) {
	answer, err := s.ask("Enter 'partial' or 'full':", "Invalid input.", func(v string) bool {
		_, err := analytics.ParseVaccinationKind(v)
		return err == nil
	}, strings.ToLower)
	if err != nil {
		return 0, err
	}
	return analytics.ParseVaccinationKind(answer)
}

func (s *shell) askDate() (string, error) {
	return s.ask("Enter date in format YYYY-MM-DD:", "Invalid date format.", types.IsDate, nil)
}

func (s *shell) askZip() (string, error) {
	return s.ask("Enter a 5-digit ZIP Code:", "Invalid ZIP Code.", types.IsZip, nil)
}

// ask repeats question until valid accepts the trimmed, optionally
// normalized answer. Every answer is logged.
func (s *shell) ask(question, invalid string, valid func(string) bool, normalize func(string) string) (string, error) {
	for {
		fmt.Fprintln(s.con, question)
		answer, err := s.con.ReadLine(prompt)
		if err != nil {
			return "", err
		}
		answer = strings.TrimSpace(answer)
		if normalize != nil {
			answer = normalize(answer)
		}
		s.log.Info(answer)
		if valid(answer) {
			return answer, nil
		}
		fmt.Fprintln(s.con, invalid)
	}
}

func formatByZip(values map[string]float64) []string {
	zips := lo.Keys(values)
	slices.Sort(zips)
	return lo.Map(zips, func(zip string, _ int) string {
		return fmt.Sprintf("%s %.4f", zip, values[zip])
	})
}
