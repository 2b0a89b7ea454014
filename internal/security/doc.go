// Package security bundles the optional session hardening of the console.
//
// Each part can be switched on or off on its own:
//
//   - IdleTracker ends sessions without user activity. Its middleware records
//     activity, KeepAlive resets the countdown after the idle prompt was
//     confirmed, and Sweep expires idle sessions from a cron job.
//   - Propagator spreads logins and logouts over a broadcast.Bus so that other
//     nodes and the open tabs of a session follow along.
//   - NoCache and ClearSiteData keep authenticated pages out of the browser
//     cache, so the back button cannot show them after logout.
//   - Beacon receives the unload beacon, forwards it to the backend audit path
//     and purges temporary session values.
//   - Monitor ends sessions whose token expiry claim has passed.
//   - Revoker asks the backend to revoke a token on logout.
//
// Cleanup never stops half way: every step runs through RunSteps, which logs
// failures and recovers panics before moving on to the next step.
package security
