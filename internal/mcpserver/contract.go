package mcpserver

// DataFormatContract describes the YAML objectives file that the server
// loads. LLM consumers read it to interpret tool output.
const DataFormatContract = `# Tiwaz Objectives Data Format

The dataset is a single YAML file (default ` + "`objectives.yaml`" + `) with three lists; ` + "`kpis`" + ` is optional.

## Structure

` + "```" + `yaml
members:
  - id: 1                     # REQUIRED - positive, unique
    name: Sophie Martin       # REQUIRED
    role: CEO
    avatar: sophie.jpg        # file name under avatars/
    team: Direction
objectives:
  - id: 1                     # REQUIRED - positive, unique
    title: Grow revenue       # REQUIRED
    description: Expand the customer base.
    due_date: 2025-12-31      # REQUIRED - YYYY-MM-DD
    progress: 65              # percentage, 0-100 nominal
    responsible: 1            # member id
    status: in_progress       # in_progress | complete | late
    tier: company             # company | department | individual
    parent_id: null           # optional parent objective id
    team: Sales               # optional team badge
kpis:
  - id: 1                     # REQUIRED - positive, unique
    name: Monthly revenue     # REQUIRED
    value: 412
    target: 500               # attainment = value / target * 100
    unit: k EUR
    trend: up                 # up | down | stable
    category: Finance         # optional
` + "```" + `

## Rules

1. **Hierarchy** comes only from ` + "`parent_id`" + `. Company objectives are the roots
   of the tree; children are listed in file order.
2. **Cycles are rejected.** A file whose parent chain loops does not load.
3. **Dangling references are tolerated.** A ` + "`parent_id`" + ` that matches no objective
   makes that objective unreachable from the tree. A ` + "`responsible`" + ` that matches no
   member is shown as "Unassigned".
4. **Progress** outside 0-100 is kept as-is and reported as a warning (an error in
   strict mode).
5. **Unknown keys** are errors.
`
