// Package driver defines the contract between netcommand and the components
// that actually talk to network devices.
//
// A Driver is built by a Factory from a domain.DriverConfig, opened once per
// session and then asked to run named operations through Call. Drivers
// register their factory under a short name from init(); importing
// netcommand/internal/driver/all pulls in every built-in driver.
//
// # Built-in Drivers
//
// mock replays canned responses from a fixture directory and simulates a
// candidate/running configuration datastore. It is meant for tests, demos and
// dry runs.
//
// ssh opens an SSH session to the device and supports running raw CLI
// commands through the "cli" operation.
package driver
