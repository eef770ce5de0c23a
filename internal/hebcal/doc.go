// Package hebcal converts between Gregorian and Hebrew calendar dates and
// renders Hebrew dates, month keys and day numbers (gematria) for display.
//
// All functions are pure: they hold no state, perform no I/O and are safe for
// concurrent use. Month numbering follows the hebcal convention (Nisan=1,
// Tishrei=7, Adar=12, Adar II=13), which is also the numbering persisted in
// month keys such as "5786-02".
package hebcal
