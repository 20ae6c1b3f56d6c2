package services

// GraphQL queries issued by the pipeline. The repositories query takes the
// page snapshot the classifier works from: language edges ordered by size,
// the head commit of the default branch, and a shallow file tree with one
// nested level of entry names.

const repositoriesQuery = `
query($org: String!, $limit: Int!, $cursor: String) {
  organization(login: $org) {
    repositories(first: $limit, after: $cursor) {
      pageInfo {
        hasNextPage
        endCursor
      }
      nodes {
        name
        url
        visibility
        isArchived
        defaultBranchRef {
          name
          target {
            ... on Commit {
              committedDate
            }
          }
        }
        languages(first: 10, orderBy: {field: SIZE, direction: DESC}) {
          edges {
            size
            node {
              name
            }
          }
          totalSize
        }
        object(expression: "HEAD:") {
          ... on Tree {
            entries {
              name
              type
              object {
                ... on Blob {
                  text
                }
                ... on Tree {
                  entries {
                    name
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

const teamsQuery = `
query($org: String!) {
  organization(login: $org) {
    teams(first: 100) {
      nodes {
        name
        slug
      }
    }
  }
}`

// The object expression cannot be parameterised through variables, so the
// branch-qualified path is interpolated into the query text.
const fileQueryFormat = `
query($owner: String!, $repo: String!) {
  repository(owner: $owner, name: $repo) {
    file: object(expression: "%s:%s") {
      ... on Blob {
        text
      }
    }
  }
}`

// graphQLError is one entry of a response's top-level errors array.
type graphQLError struct {
	Message string `json:"message"`
}
