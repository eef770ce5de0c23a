// Package reminder decides which push reminders are due and hands them to the
// task runner for delivery.
//
// The scheduler ticks once a minute in the configured time zone. On the first
// day of a Hebrew month it invites every subscribed user to set monthly goals.
// Every day it sends each user one daily reminder at their reminder time,
// skipping days off and days they do not work.
package reminder
