package ui

// statusMsg replaces the status line text
type statusMsg struct {
	text string
	err  bool
}

// clearStatusMsg clears the status line if no newer status was set since
type clearStatusMsg struct {
	seq int
}

// countsChangedMsg tells the dashboard to re-tally the store
type countsChangedMsg struct{}

// pagerClosedMsg contains the result of a pager command
type pagerClosedMsg struct {
	title   string
	content string
	err     error
}

// openMenuMsg opens the role context menu
type openMenuMsg struct {
	roleID string
}

// openFormMsg opens the role dialog. An empty roleID adds a role.
type openFormMsg struct {
	roleID string
}

// formSubmittedMsg is sent by the role dialog when it completes
type formSubmittedMsg struct{}

// formCancelledMsg is sent by the role dialog when it is aborted
type formCancelledMsg struct{}
