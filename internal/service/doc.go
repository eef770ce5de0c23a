// Package service contains the application use cases. It orchestrates domain
// objects and the stores defined in internal/store to serve accounts and
// profiles, the question set catalog, set progress, the journal, monthly
// goals, the Hebrew calendar and image uploads.
//
// Services receive their dependencies through constructors. Multi-step writes
// run inside store.RunInTransaction with transaction-aware stores obtained
// through WithTx.
//
// Expected conditions are reported with sentinel errors (this package's,
// store's and domain's) so the API layer can map them with errors.Is.
// Unexpected failures are wrapped in *ServiceError with the operation name.
package service
