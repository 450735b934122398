// Package view hosts the app's navigation state machine and the per-device
// controller that sequences user edits into generation requests and saved
// looks.
package view

// View is one of the app's named screens.
type View string

const (
	Splash     View = "splash"
	Login      View = "login"
	Register   View = "register"
	Home       View = "home"
	Search     View = "search"
	Studio     View = "studio"
	Result     View = "result"
	Favorites  View = "favorites"
	LookDetail View = "look_detail"
	Profile    View = "profile"
)

// rule is the precondition for entering a view, with the view to fall back
// to when the precondition fails. Invalid entries are recovered locally by
// redirect and never surfaced to the user.
type rule struct {
	requiresAuth bool
	requiresLook bool
	lookFallback View
}

// transitions is the declarative guard table. Views absent from the table
// are freely reachable. Splash is terminal: it is only left via the
// bootstrap auto-transition, never entered by navigation.
var transitions = map[View]rule{
	Studio:     {requiresAuth: true},
	Favorites:  {requiresAuth: true},
	Profile:    {requiresAuth: true},
	LookDetail: {requiresAuth: true, requiresLook: true, lookFallback: Favorites},
}

var allViews = map[View]bool{
	Splash: true, Login: true, Register: true, Home: true, Search: true,
	Studio: true, Result: true, Favorites: true, LookDetail: true, Profile: true,
}

// Valid reports whether v names a known view.
func Valid(v View) bool { return allViews[v] }
