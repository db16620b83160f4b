// Package surface holds the state machines behind the storefront screens:
// the navigation bar, product cards and the product detail page.
//
// Each machine is owned by one screen instance. Callbacks into the parent
// application are invoked without holding the machine's lock, so they may
// call back into the machine.
package surface
