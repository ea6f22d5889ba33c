// Package layers generates the four manufacturing layers of a story map in
// canvas space.
//
// Every generator of one export works against the same Frame, i.e. the same
// bounds, layout and projector. That shared Frame is what keeps the layers
// registered to each other when they are overlaid at 1:1 scale.
//
// The package includes:
//   - Cut: the panel outline and four corner registration marks
//   - Text: title, location markers, labels and the journey highlights legend
//   - Geographic: coastlines, lakes, rivers and boundaries clipped to the content area
//   - Route: the template route as one connected path plus its waypoints
package layers
