package mcp

// Comprehensive tool descriptions with practical examples and use cases

const (
	extractReportDescription = `Extract structured agronomic data from a drone-imagery PDF report.

**When to use:** Need the measurements behind a drone analysis report: analysis type, field name, crop, severity levels, affected areas, and the field map.

**Why it's useful:** Turns a presentation-oriented PDF into a machine-readable record, so report numbers can feed dashboards, spraying plans, or field history systems without manual copying.

**Examples:**
• Scouting follow-up: "Extract weed-analysis.pdf to see which severity levels cover the most hectares"
• Field history: "Extract plant-health-report.pdf and store the record with the field's season data"
• Map retrieval: "Extract report.pdf with include_image_data to get the field map for annotation"

**Common workflows:**
1. Report Intake: Validate file → Extract record → Store structured data
2. Treatment Planning: Extract severity levels → Rank by affected area → Target the worst zones
3. Season Tracking: Extract each report → Compare total affected area over time

**Best practices:** Run validate_report first for unknown files; leave include_image_data off unless the map is needed, responses stay much smaller.`

	validateReportDescription = `Verify a report PDF is intact and readable before extraction.

**When to use:** Before extracting any report, especially user uploads or files fetched from external systems.

**Why it's useful:** Catches missing files, wrong extensions, oversized uploads, and corrupted documents early, with a reason instead of a mid-extraction failure.

**Examples:**
• Upload verification: "Check uploaded-report.pdf is a valid PDF before queuing extraction"
• Batch safety: "Validate every file in /reports/ before bulk extraction"
• Troubleshooting: "Validate broken-report.pdf to see why extraction keeps failing"

**Common workflows:**
1. Safe Intake: Validate → Extract if valid → Report the reason otherwise
2. Batch Processing: Validate all files → Skip rejects → Extract the rest

**Best practices:** The result carries a human-readable reason for every rejection; surface it to the uploader instead of a generic error.`
)
