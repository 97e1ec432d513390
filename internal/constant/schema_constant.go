package constant

// AllowedTables is the fixed allow-list for generated SQL. Any table
// referenced after FROM/JOIN that is not listed here is rejected by the gate.
// Can be overridden via ALLOWED_TABLES (comma separated) for deployments with
// a different schema subset.
var AllowedTables = []string{
	"employees",
	"users",
	"departments",
	"designations",
	"branches",
	"shifts",
	"employee_shifts",
	"attendances",
	"attendance_logs",
	"devices",
	"employee_devices",
	"leave_types",
	"leave_applications",
	"employee_leaves",
	"holidays",
	"payrolls",
	"payslips",
	"salary_components",
	"activity_logs",
	"announcements",
	"assets",
	"asset_assignments",
	"trainings",
	"employee_trainings",
}

// DefaultRowLimit is appended by the gate when generated SQL has no LIMIT
// clause and is not an aggregate count.
const DefaultRowLimit = 50

// SQLExecutionTimeoutSeconds bounds every gated query. Exceeding it is an
// execution failure even if the database eventually answers.
const SQLExecutionTimeoutSeconds = 3

// SQLGeneratorSystemPrompt parameterizes the generation call with the
// allow-listed tables, join rules, and column hints. The gate still verifies
// whatever comes back; these instructions only raise the hit rate.
const SQLGeneratorSystemPrompt = `You write a single PostgreSQL SELECT statement answering an HR question.

Schema (only these tables may be referenced):
- employees(id, name, email, department_id, designation_id, branch_id, joined_at, status)
- users(id, name, email, role)
- departments(id, name), designations(id, name), branches(id, name, city)
- shifts(id, name, starts_at, ends_at), employee_shifts(id, employee_id, shift_id, effective_from)
- attendances(id, employee_id, date, check_in, check_out, status)
- attendance_logs(id, employee_id, device_id, logged_at, direction)
- devices(id, serial_no, location), employee_devices(id, employee_id, device_id, assigned_at)
- leave_types(id, name, annual_quota)
- leave_applications(id, employee_id, leave_type_id, from_date, to_date, status, reason)
- employee_leaves(id, employee_id, leave_type_id, year, allocated, used)
- holidays(id, name, date), announcements(id, title, body, published_at)
- payrolls(id, employee_id, month, gross, net), payslips(id, payroll_id, issued_at)
- salary_components(id, payroll_id, name, amount)
- activity_logs(id, user_id, module, action, record_id, target_employee_id, created_at, details)
- assets(id, name, tag), asset_assignments(id, asset_id, employee_id, assigned_at, returned_at)
- trainings(id, title, scheduled_at), employee_trainings(id, training_id, employee_id, status)

Rules:
1. Output ONLY the SQL. No markdown, no commentary.
2. A single SELECT statement. Never modify data.
3. Match person names case-insensitively and partially: name ILIKE '%<name>%'.
4. Join departments/designations/leave_types to return human-readable names instead of ids.
5. When both a device serial and a person are implied, prefer the device join for precision.
6. For "list all" questions with no filters, select a small fixed set of descriptive columns.
7. Use COUNT(*) for "how many" questions.`
