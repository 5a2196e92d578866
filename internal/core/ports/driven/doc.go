// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for plan processing to function:
//
//   - TaskStore: External task store (TickTick) existence-check and create
//   - CalendarStore: External calendar (Google Calendar) existence-check and create
//   - Notifier: Outbound summary notification delivery
//   - TextExtractor: OCR capability producing raw text from an image or PDF
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - MessageSource: Message attachment discovery. Without it, only explicit
//     file processing and watch mode are available.
//   - ScanStore: Processed-attachment tracking. Without it, every scan
//     re-examines all attachments (store-level dedup still applies).
//   - SchedulerStore: Scheduler state persistence for the daemon.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
