package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/modline/modtrack/internal/cli/formatter"
	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/insight"
	"github.com/shopspring/decimal"
)

// modtrackHuhTheme styles forms with the formatter palette.
func modtrackHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// projectFormValues backs the interactive "project add" form. Every field
// is a string so huh inputs can bind to it directly.
type projectFormValues struct {
	Number        string
	Name          string
	Client        string
	Factory       string
	Address       string
	Status        string
	StartDate     string
	OfflineDate   string
	DeliveryDate  string
	OnlineDate    string
	ContractValue string
	ModuleCount   string
}

func projectForm(v *projectFormValues, factories []string) *huh.Form {
	if v.Status == "" {
		v.Status = string(domain.ProjectPlanning)
	}
	statusOptions := make([]huh.Option[string], 0, 5)
	for _, s := range []domain.ProjectStatus{domain.ProjectPlanning, domain.ProjectActive, domain.ProjectOnHold} {
		statusOptions = append(statusOptions, huh.NewOption(string(s), string(s)))
	}

	var factory huh.Field = huh.NewInput().Title("Factory").Value(&v.Factory)
	if len(factories) > 0 {
		opts := make([]huh.Option[string], 0, len(factories))
		for _, f := range factories {
			opts = append(opts, huh.NewOption(f, f))
		}
		factory = huh.NewSelect[string]().Title("Factory").Options(opts...).Value(&v.Factory)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Job Number").Placeholder("MB-2041").Value(&v.Number).Validate(validateProjectNumber),
			huh.NewInput().Title("Name").Value(&v.Name).Validate(validateRequired("name")),
			huh.NewInput().Title("Client").Value(&v.Client),
			factory,
			huh.NewInput().Title("Site Address").Value(&v.Address),
			huh.NewSelect[string]().Title("Status").Options(statusOptions...).Value(&v.Status),
		),
		huh.NewGroup(
			dateInput("Start Date", &v.StartDate),
			dateInput("Target Offline Date", &v.OfflineDate),
			dateInput("Delivery Date", &v.DeliveryDate),
			dateInput("Target Online Date", &v.OnlineDate),
			huh.NewInput().Title("Contract Value").Placeholder("0.00").Value(&v.ContractValue).Validate(validateMoney),
			huh.NewInput().Title("Module Count").Placeholder("0").Value(&v.ModuleCount).Validate(validateNonNegativeInt),
		),
	).WithTheme(modtrackHuhTheme()).WithShowHelp(false)
}

type itemFormValues struct {
	Title          string
	Description    string
	Priority       string
	DueDate        string
	AssigneeID     string
	Question       string
	SpecSection    string
	RecipientEmail string
	RecipientName  string
}

func itemForm(kind domain.ItemKind, v *itemFormValues) *huh.Form {
	if v.Priority == "" {
		v.Priority = string(domain.PriorityMedium)
	}
	priorities := []huh.Option[string]{
		huh.NewOption("Low", string(domain.PriorityLow)),
		huh.NewOption("Medium", string(domain.PriorityMedium)),
		huh.NewOption("High", string(domain.PriorityHigh)),
		huh.NewOption("Critical", string(domain.PriorityCritical)),
	}

	fields := []huh.Field{
		huh.NewInput().Title(kind.Label() + " Title").Value(&v.Title).Validate(validateRequired("title")),
		huh.NewText().Title("Description").Value(&v.Description),
		huh.NewSelect[string]().Title("Priority").Options(priorities...).Value(&v.Priority),
		dateInput("Due Date", &v.DueDate),
		huh.NewInput().Title("Assignee").Value(&v.AssigneeID),
	}
	switch kind {
	case domain.KindRFI:
		fields = append(fields, huh.NewText().Title("Question").Value(&v.Question))
	case domain.KindSubmittal:
		fields = append(fields, huh.NewInput().Title("Spec Section").Placeholder("08 71 00").Value(&v.SpecSection))
	}
	if kind == domain.KindRFI || kind == domain.KindSubmittal {
		fields = append(fields,
			huh.NewInput().Title("Recipient Email").Value(&v.RecipientEmail),
			huh.NewInput().Title("Recipient Name").Value(&v.RecipientName),
		)
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(modtrackHuhTheme()).WithShowHelp(false)
}

// dateInput is an optional YYYY-MM-DD field.
func dateInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("YYYY-MM-DD, blank for none").
		Value(value).
		Validate(validateOptionalDate)
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateProjectNumber(s string) error {
	p := domain.Project{Number: strings.ToUpper(strings.TrimSpace(s))}
	if err := p.ValidateNumber(); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("%s", ve.Message)
		}
		return err
	}
	return nil
}

// validateOptionalDate accepts empty or a YYYY-MM-DD date.
func validateOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := insight.ParseDateKey(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

// validateNonNegativeInt accepts empty or a non-negative integer.
func validateNonNegativeInt(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}

func validateMoney(s string) error {
	v, err := parseMoney(s)
	if err != nil || v.IsNegative() {
		return fmt.Errorf("enter an amount like 1250000.00")
	}
	return nil
}

// parseMoney accepts "1250000", "$1,250,000.00" and blank (zero).
func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(s), "$"), ",", ""))
	if s == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}

// parseOptionalDate turns a blank or YYYY-MM-DD flag into a date.
func parseOptionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := insight.ParseDateKey(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
