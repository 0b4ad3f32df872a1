// Package control implements the line following controllers: smoothing of the lane angle,
// the steering PID, curvature aware speed planning and the limits applied to every
// steering and speed request.
package control
