package sqlstore

import "github.com/phrazzld/taskhub-api/internal/query"

// TaskSchema maps task document fields to columns of the tasks table.
var TaskSchema = query.Schema{
	Table: "tasks",
	Columns: map[string]query.Column{
		"id":               {Name: "id", Kind: query.KindString},
		"name":             {Name: "name", Kind: query.KindString},
		"description":      {Name: "description", Kind: query.KindString},
		"deadline":         {Name: "deadline", Kind: query.KindTime},
		"completed":        {Name: "completed", Kind: query.KindBool},
		"assignedUser":     {Name: "assigned_user", Kind: query.KindString},
		"assignedUserName": {Name: "assigned_user_name", Kind: query.KindString},
		"dateCreated":      {Name: "date_created", Kind: query.KindTime},
	},
}

// UserSchema maps user document fields to columns of the users table.
var UserSchema = query.Schema{
	Table: "users",
	Columns: map[string]query.Column{
		"id":           {Name: "id", Kind: query.KindString},
		"name":         {Name: "name", Kind: query.KindString},
		"email":        {Name: "email", Kind: query.KindString},
		"pendingTasks": {Name: "pending_tasks", Kind: query.KindList},
		"dateCreated":  {Name: "date_created", Kind: query.KindTime},
	},
}

const taskColumns = "id, name, description, deadline, completed, assigned_user, assigned_user_name, date_created"

const userColumns = "id, name, email, pending_tasks, date_created"

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// selectPage builds a filtered, ordered and paginated SELECT of columns.
func selectPage(d Dialect, schema query.Schema, columns string, opts query.Options) (string, []any, error) {
	clause, err := query.Compile(schema, opts.Where, opts.Sort)
	if err != nil {
		return "", nil, err
	}
	q := "SELECT " + columns + " FROM " + schema.Table +
		" WHERE " + clause.Where +
		" ORDER BY " + clause.OrderBy +
		d.Paginate(opts.Skip, opts.Limit)
	return q, clause.Args, nil
}

// countPage counts the rows selectPage would return.
func countPage(d Dialect, schema query.Schema, opts query.Options) (string, []any, error) {
	inner, args, err := selectPage(d, schema, "id", opts)
	if err != nil {
		return "", nil, err
	}
	return "SELECT COUNT(*) FROM (" + inner + ") AS page", args, nil
}
