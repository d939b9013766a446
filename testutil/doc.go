// Package testutil provides test doubles and helpers for code built on the
// provider package.
//
// # Stub providers
//
// StubProvider embeds *provider.Base and lets a test script Initialize:
//
//	sched := provider.NewFrameScheduler()
//	slow := testutil.NewStub("slow", testutil.ReadyAfterTicks(sched, 2))
//	fast := testutil.NewStub("fast")
//
// # Hosts
//
// RecordingHost is a provider.Host that remembers every disposed provider.
//
// # Helpers
//
//	testutil.T(t).Setup(tickerScheduler) // stopped when the test ends
//	testutil.Eventually(t, time.Second, func() bool { return coord.IsReady() }, "coordinator ready")
//	testutil.WaitForWaiters(t, sched, 1)
package testutil
