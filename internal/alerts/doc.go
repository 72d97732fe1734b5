// Package alerts evaluates threshold rules against the analytics
// snapshot and delivers webhook notifications when rules fire or resolve.
package alerts
